package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/payments-example/internal/data/persistence"
	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/http/response"
	svc "github.com/yungbote/payments-example/internal/services/payments"
)

type createFunc func(context.Context, svc.CreatePaymentCommand) (entity.Loaded[*domain.Payment], error)

func (f createFunc) Handle(ctx context.Context, cmd svc.CreatePaymentCommand) (entity.Loaded[*domain.Payment], error) {
	return f(ctx, cmd)
}

type getFunc func(context.Context, svc.GetPaymentQuery) (entity.Loaded[*domain.Payment], error)

func (f getFunc) Handle(ctx context.Context, q svc.GetPaymentQuery) (entity.Loaded[*domain.Payment], error) {
	return f(ctx, q)
}

type listFunc func(context.Context, svc.ListPaymentsQuery) (svc.PaymentPage, error)

func (f listFunc) Handle(ctx context.Context, q svc.ListPaymentsQuery) (svc.PaymentPage, error) {
	return f(ctx, q)
}

func loadedPayment(t *testing.T, amount float64, ccy string, status domain.Status) entity.Loaded[*domain.Payment] {
	t.Helper()
	money, err := domain.MoneyFromFloat(amount, ccy)
	if err != nil {
		t.Fatalf("money: %v", err)
	}
	snap := domain.Snapshot{
		Amount:     money.Amount(),
		Currency:   money.Currency(),
		Status:     status.String(),
		CustomerID: "c1",
		Metadata:   map[string]any{"orderId": "o-1"},
	}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	meta, err := entity.NewMeta(uuid.New(), now, now)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	loaded, err := domain.Load(meta, snap)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return loaded
}

func newTestRouter(h *PaymentHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payments", h.CreatePayment)
	r.GET("/api/payments", h.ListPayments)
	r.GET("/api/payments/:id", h.GetPayment)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope %q: %v", rec.Body.String(), err)
	}
	return env.Error
}

func TestCreatePaymentEndpoint(t *testing.T) {
	var got svc.CreatePaymentCommand
	saved := loadedPayment(t, 100, "USD", domain.StatusCompleted)
	h := NewPaymentHandler(nil, createFunc(func(_ context.Context, cmd svc.CreatePaymentCommand) (entity.Loaded[*domain.Payment], error) {
		got = cmd
		return saved, nil
	}), nil, nil)
	r := newTestRouter(h)

	rec := do(r, http.MethodPost, "/api/payments", `{"amount":100,"currency":"USD","customerId":"c1","description":"order","metadata":{"orderId":"o-1"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: want=%d got=%d body=%s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if got.Amount != 100 || got.Currency != "USD" || got.CustomerID != "c1" || got.Description == nil || *got.Description != "order" {
		t.Fatalf("command: got=%+v", got)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != saved.ID().String() || body["status"] != "COMPLETED" || body["customerId"] != "c1" {
		t.Fatalf("body: got=%v", body)
	}
	if amount, ok := body["amount"].(float64); !ok || amount != 100 {
		t.Fatalf("amount: want number 100 got=%v (%T)", body["amount"], body["amount"])
	}
	if _, ok := body["description"]; !ok || body["description"] != nil {
		t.Fatalf("description: want explicit null got=%v", body["description"])
	}
}

func TestCreatePaymentEndpointValidation(t *testing.T) {
	calls := 0
	h := NewPaymentHandler(nil, createFunc(func(context.Context, svc.CreatePaymentCommand) (entity.Loaded[*domain.Payment], error) {
		calls++
		return entity.Loaded[*domain.Payment]{}, errors.New("unexpected call")
	}), nil, nil)
	r := newTestRouter(h)

	cases := map[string]string{
		"negative amount":   `{"amount":-5,"currency":"USD","customerId":"c1"}`,
		"missing amount":    `{"currency":"USD","customerId":"c1"}`,
		"short currency":    `{"amount":10,"currency":"us","customerId":"c1"}`,
		"lowercase":         `{"amount":10,"currency":"usd","customerId":"c1"}`,
		"unknown currency":  `{"amount":10,"currency":"ABC","customerId":"c1"}`,
		"missing customer":  `{"amount":10,"currency":"USD"}`,
		"empty description": `{"amount":10,"currency":"USD","customerId":"c1","description":""}`,
		"empty metadata":    `{"amount":10,"currency":"USD","customerId":"c1","metadata":{}}`,
		"metadata array":    `{"amount":10,"currency":"USD","customerId":"c1","metadata":[1]}`,
		"malformed json":    `{"amount":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/payments", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: want=400 got=%d body=%s", rec.Code, rec.Body.String())
			}
			if e := decodeError(t, rec); e.Code != string(domainagg.CodeValidation) {
				t.Fatalf("code: want=validation got=%q", e.Code)
			}
		})
	}
	if calls != 0 {
		t.Fatalf("service called %d times for invalid requests", calls)
	}
}

func TestGetPaymentEndpoint(t *testing.T) {
	stored := loadedPayment(t, 12.5, "EUR", domain.StatusFailed)
	h := NewPaymentHandler(nil, nil, getFunc(func(_ context.Context, q svc.GetPaymentQuery) (entity.Loaded[*domain.Payment], error) {
		if q.ID == stored.ID() {
			return stored, nil
		}
		return entity.Loaded[*domain.Payment]{}, domainagg.NewError(domainagg.CodeNotFound, "payments.get", "payment with id "+q.ID.String()+" not found", nil)
	}), nil)
	r := newTestRouter(h)

	rec := do(r, http.MethodGet, "/api/payments/"+stored.ID().String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("found: want=200 got=%d", rec.Code)
	}
	var body response.Payment
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Amount.String() != "12.5" || body.Currency != "EUR" || body.Status != "FAILED" || body.Metadata["orderId"] != "o-1" {
		t.Fatalf("body: got=%+v", body)
	}

	missing := uuid.New()
	rec = do(r, http.MethodGet, "/api/payments/"+missing.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing: want=404 got=%d", rec.Code)
	}
	if e := decodeError(t, rec); e.Message != "payment with id "+missing.String()+" not found" || e.Code != "not_found" {
		t.Fatalf("missing: got=%+v", e)
	}

	rec = do(r, http.MethodGet, "/api/payments/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=400 got=%d", rec.Code)
	}
}

func TestListPaymentsEndpoint(t *testing.T) {
	var got svc.ListPaymentsQuery
	item := loadedPayment(t, 5, "USD", domain.StatusCompleted)
	h := NewPaymentHandler(nil, nil, nil, listFunc(func(_ context.Context, q svc.ListPaymentsQuery) (svc.PaymentPage, error) {
		got = q
		page, limit := q.Page, q.Limit
		if page == 0 {
			page = 1
		}
		if limit == 0 {
			limit = 10
		}
		return persistence.Page[entity.Loaded[*domain.Payment]]{Items: []entity.Loaded[*domain.Payment]{item}, Total: 1, Page: page, Limit: limit}, nil
	}))
	r := newTestRouter(h)

	rec := do(r, http.MethodGet, "/api/payments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("defaults: want=200 got=%d", rec.Code)
	}
	if got.Page != 0 || got.Limit != 0 {
		t.Fatalf("defaults should be left to the service: got=%+v", got)
	}
	var body response.PaymentList
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 1 || body.Page != 1 || body.Limit != 10 || len(body.Items) != 1 {
		t.Fatalf("body: got=%+v", body)
	}
	if got := rec.Header().Get(response.HeaderTotalCount); got != "1" {
		t.Fatalf("%s: want=1 got=%q", response.HeaderTotalCount, got)
	}

	rec = do(r, http.MethodGet, "/api/payments?page=2&limit=5&customerId=c1&status=COMPLETED", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("explicit: want=200 got=%d", rec.Code)
	}
	want := svc.ListPaymentsQuery{Page: 2, Limit: 5, CustomerID: "c1", Status: "COMPLETED"}
	if got != want {
		t.Fatalf("query: want=%+v got=%+v", want, got)
	}

	for _, target := range []string{"/api/payments?limit=101", "/api/payments?page=-1", "/api/payments?page=abc"} {
		if rec := do(r, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want=400 got=%d", target, rec.Code)
		}
	}
}

func TestDomainErrorMapping(t *testing.T) {
	cases := []struct {
		code domainagg.ErrorCode
		want int
	}{
		{domainagg.CodeValidation, http.StatusBadRequest},
		{domainagg.CodeNotFound, http.StatusNotFound},
		{domainagg.CodeInvalidStateTransition, http.StatusConflict},
		{domainagg.CodeConflict, http.StatusConflict},
		{domainagg.CodeRetryable, http.StatusServiceUnavailable},
		{domainagg.CodePersistence, http.StatusInternalServerError},
		{domainagg.CodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.code); got != tc.want {
			t.Fatalf("StatusFor(%q): want=%d got=%d", tc.code, tc.want, got)
		}
	}

	h := NewPaymentHandler(nil, createFunc(func(context.Context, svc.CreatePaymentCommand) (entity.Loaded[*domain.Payment], error) {
		return entity.Loaded[*domain.Payment]{}, domainagg.NewError(domainagg.CodePersistence, "payments.insert", "dial tcp 10.0.0.5:5432: refused", nil)
	}), nil, nil)
	rec := do(newTestRouter(h), http.MethodPost, "/api/payments", `{"amount":1,"currency":"USD","customerId":"c1"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("persistence: want=500 got=%d", rec.Code)
	}
	if e := decodeError(t, rec); strings.Contains(e.Message, "10.0.0.5") || e.Code != "persistence" {
		t.Fatalf("persistence error leaked or miscoded: %+v", e)
	}
}
