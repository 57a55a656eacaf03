package payments

import (
	"context"
	"maps"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/payments-example/internal/data/persistence"
	paymentrepo "github.com/yungbote/payments-example/internal/data/repos/payments"
	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListPaymentsQuery selects one page of payments. Zero Page and Limit take the defaults.
// CustomerID and Status narrow the result when set.
type ListPaymentsQuery struct {
	Page       int
	Limit      int
	CustomerID string
	Status     string
}

type PaymentPage = persistence.Page[entity.Loaded[*domain.Payment]]

type ListPaymentsHandler interface {
	Handle(ctx context.Context, q ListPaymentsQuery) (PaymentPage, error)
}

type listPaymentsHandler struct {
	log    *logger.Logger
	repo   Repository
	tracer trace.Tracer
}

func NewListPaymentsHandler(log *logger.Logger, repo Repository) ListPaymentsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &listPaymentsHandler{
		log:    log.With("service", "ListPaymentsHandler"),
		repo:   repo,
		tracer: otel.Tracer(tracerName),
	}
}

func (h *listPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) (PaymentPage, error) {
	const op = "payments.list"
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	ctx, span := h.tracer.Start(ctx, "ListPayments", trace.WithAttributes(
		attribute.Int("page", q.Page),
		attribute.Int("limit", q.Limit),
	))
	defer span.End()

	page, err := h.list(ctx, op, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		h.log.Debug("list payments failed", append([]interface{}{"page", q.Page, "limit", q.Limit, "error", err}, ctxutil.LogFields(ctx)...)...)
		return PaymentPage{}, err
	}
	span.SetAttributes(attribute.Int64("total", page.Total))
	return page, nil
}

func (h *listPaymentsHandler) list(ctx context.Context, op string, q ListPaymentsQuery) (PaymentPage, error) {
	if q.Limit > MaxLimit {
		return PaymentPage{}, domainagg.Validation(op, "limit must be <= %d, got %d", MaxLimit, q.Limit)
	}
	criteria := persistence.Criteria{}
	if customerID := strings.TrimSpace(q.CustomerID); customerID != "" {
		maps.Copy(criteria, paymentrepo.ByCustomer(customerID))
	}
	if raw := strings.TrimSpace(q.Status); raw != "" {
		status, err := domain.ParseStatus(strings.ToUpper(raw))
		if err != nil {
			return PaymentPage{}, err
		}
		maps.Copy(criteria, paymentrepo.ByStatus(status))
	}
	return h.repo.FindWithPagination(ctx, criteria, persistence.PageRequest{Page: q.Page, Limit: q.Limit})
}
