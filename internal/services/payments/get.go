package payments

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	paymentrepo "github.com/yungbote/payments-example/internal/data/repos/payments"
	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

type GetPaymentQuery struct {
	ID uuid.UUID
}

type GetPaymentHandler interface {
	Handle(ctx context.Context, q GetPaymentQuery) (entity.Loaded[*domain.Payment], error)
}

type getPaymentHandler struct {
	log    *logger.Logger
	repo   Repository
	tracer trace.Tracer
}

func NewGetPaymentHandler(log *logger.Logger, repo Repository) GetPaymentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &getPaymentHandler{
		log:    log.With("service", "GetPaymentHandler"),
		repo:   repo,
		tracer: otel.Tracer(tracerName),
	}
}

func (h *getPaymentHandler) Handle(ctx context.Context, q GetPaymentQuery) (entity.Loaded[*domain.Payment], error) {
	const op = "payments.get"
	ctx, span := h.tracer.Start(ctx, "GetPayment", trace.WithAttributes(
		attribute.String("payment.id", q.ID.String()),
	))
	defer span.End()

	loaded, found, err := h.repo.FindOne(ctx, paymentrepo.ByID(q.ID))
	if err == nil && !found {
		err = domainagg.NotFound(op, "payment with id %s not found", q.ID)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		h.log.Debug("get payment failed", append([]interface{}{"payment_id", q.ID.String(), "error", err}, ctxutil.LogFields(ctx)...)...)
		return entity.Loaded[*domain.Payment]{}, err
	}
	return loaded, nil
}
