package persistence

import (
	"strings"
	"time"

	"github.com/yungbote/payments-example/internal/observability"
)

// Hooks captures repository-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates repository hooks backed by Prometheus metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	name, status = strings.TrimSpace(name), strings.TrimSpace(status)
	h.metrics.ObserveRepositoryOperation(name, status, dur)
	if status != "success" {
		h.metrics.IncRepositoryFailure(name, status)
	}
}
