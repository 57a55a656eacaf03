package payments

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainagg "github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/platform/ctxutil"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

const tracerName = "payments-service"

type CreatePaymentCommand struct {
	Amount      float64
	Currency    string
	CustomerID  string
	Description *string
	Metadata    map[string]any
}

type CreatePaymentHandler interface {
	Handle(ctx context.Context, cmd CreatePaymentCommand) (entity.Loaded[*domain.Payment], error)
}

type createPaymentHandler struct {
	log       *logger.Logger
	repo      Repository
	processor Processor
	outcomes  OutcomeRecorder
	tracer    trace.Tracer
}

func NewCreatePaymentHandler(log *logger.Logger, repo Repository, processor Processor, outcomes OutcomeRecorder) CreatePaymentHandler {
	if log == nil {
		log = logger.Nop()
	}
	if outcomes == nil {
		outcomes = nopRecorder{}
	}
	return &createPaymentHandler{
		log:       log.With("service", "CreatePaymentHandler"),
		repo:      repo,
		processor: processor,
		outcomes:  outcomes,
		tracer:    otel.Tracer(tracerName),
	}
}

// Handle validates the command, runs the processor against the pending payment and persists
// the terminal result. Nothing is written when validation or processing fails.
func (h *createPaymentHandler) Handle(ctx context.Context, cmd CreatePaymentCommand) (entity.Loaded[*domain.Payment], error) {
	const op = "payments.create"
	ctx, span := h.tracer.Start(ctx, "CreatePayment", trace.WithAttributes(
		attribute.String("payment.currency", cmd.Currency),
	))
	defer span.End()

	loaded, err := h.handle(ctx, op, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		h.log.Warn("create payment failed", append([]interface{}{"error", err}, ctxutil.LogFields(ctx)...)...)
		return entity.Loaded[*domain.Payment]{}, err
	}
	span.SetAttributes(
		attribute.String("payment.id", loaded.ID().String()),
		attribute.String("payment.status", loaded.Value().Status().String()),
	)
	h.log.Info("payment created", append([]interface{}{
		"payment_id", loaded.ID().String(),
		"status", loaded.Value().Status().String(),
		"customer_id", loaded.Value().CustomerID(),
	}, ctxutil.LogFields(ctx)...)...)
	return loaded, nil
}

func (h *createPaymentHandler) handle(ctx context.Context, op string, cmd CreatePaymentCommand) (entity.Loaded[*domain.Payment], error) {
	money, err := domain.MoneyFromFloat(cmd.Amount, cmd.Currency)
	if err != nil {
		return entity.Loaded[*domain.Payment]{}, err
	}
	transient, err := domain.Create(domain.NewPayment{
		Amount:      money,
		CustomerID:  cmd.CustomerID,
		Description: cmd.Description,
		Metadata:    domain.NewMetadata(cmd.Metadata),
	})
	if err != nil {
		return entity.Loaded[*domain.Payment]{}, err
	}

	payment := transient.Value()
	outcome, err := h.processor.Process(ctx, payment)
	if err != nil {
		if domainagg.CodeOf(err) == "" {
			err = domainagg.Wrap(domainagg.CodeInternal, op, err)
		}
		return entity.Loaded[*domain.Payment]{}, err
	}
	if err := payment.Apply(outcome); err != nil {
		return entity.Loaded[*domain.Payment]{}, err
	}

	saved, err := h.repo.Save(ctx, transient)
	if err != nil {
		return entity.Loaded[*domain.Payment]{}, err
	}
	h.outcomes.IncPaymentOutcome(saved.Value().Status().String())
	return saved, nil
}
