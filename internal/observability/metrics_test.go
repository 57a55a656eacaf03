package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordAndExpose(t *testing.T) {
	m := NewMetrics("payments_test")
	m.ObserveAPI("POST", "/api/payments", "201", 12*time.Millisecond)
	m.ObserveAPI("POST", "/api/payments", "201", 8*time.Millisecond)
	m.IncPaymentOutcome("COMPLETED")
	m.IncRepositoryFailure("payments.save", "persistence")

	if got := testutil.ToFloat64(m.apiRequests.WithLabelValues("POST", "/api/payments", "201")); got != 2 {
		t.Fatalf("requests: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.paymentOutcomes.WithLabelValues("COMPLETED")); got != 1 {
		t.Fatalf("outcomes: want=1 got=%v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "payments_test_repository_failures_total") {
		t.Fatalf("exposition missing repository failures metric")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveRepositoryOperation("op", "success", time.Millisecond)
	m.IncIdempotencyReplay()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("nil metrics handler: want=404 got=%d", rec.Code)
	}
}
