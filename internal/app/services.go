package app

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/yungbote/payments-example/internal/clients/gateway"
	"github.com/yungbote/payments-example/internal/observability"
	"github.com/yungbote/payments-example/internal/platform/logger"
	svc "github.com/yungbote/payments-example/internal/services/payments"
)

type Services struct {
	CreatePayment svc.CreatePaymentHandler
	GetPayment    svc.GetPaymentHandler
	ListPayments  svc.ListPaymentsHandler
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")
	processor, err := newProcessor(log, cfg.Processor)
	if err != nil {
		return Services{}, err
	}
	return Services{
		CreatePayment: svc.NewCreatePaymentHandler(log, repos.Payment, processor, metrics),
		GetPayment:    svc.NewGetPaymentHandler(log, repos.Payment),
		ListPayments:  svc.NewListPaymentsHandler(log, repos.Payment),
	}, nil
}

func newProcessor(log *logger.Logger, cfg ProcessorConfig) (svc.Processor, error) {
	switch cfg.Mode {
	case ProcessorApprove:
		return gateway.Approve(), nil
	case ProcessorDecline:
		return gateway.Decline(), nil
	case ProcessorSimulated:
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		sim, err := gateway.NewSimulated(log, cfg.ApprovalRate, rand.NewPCG(seed, seed>>1|1))
		if err != nil {
			return nil, err
		}
		return sim, nil
	default:
		return nil, fmt.Errorf("unknown processor mode %q", cfg.Mode)
	}
}
