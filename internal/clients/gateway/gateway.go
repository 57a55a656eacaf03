// Package gateway holds the processing collaborators that decide a pending payment's fate.
// Neither talks to a real payment provider.
package gateway

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	domain "github.com/yungbote/payments-example/internal/domain/payments"
	"github.com/yungbote/payments-example/internal/platform/logger"
)

const DefaultApprovalRate = 0.9

// Simulated approves a payment with a fixed probability. A seeded source makes it deterministic.
type Simulated struct {
	log  *logger.Logger
	rate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulated(log *logger.Logger, approvalRate float64, src rand.Source) (*Simulated, error) {
	if approvalRate < 0 || approvalRate > 1 {
		return nil, fmt.Errorf("approval rate must be within [0,1], got %v", approvalRate)
	}
	if src == nil {
		return nil, fmt.Errorf("random source required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Simulated{
		log:  log.With("client", "SimulatedGateway"),
		rate: approvalRate,
		rng:  rand.New(src),
	}, nil
}

func (s *Simulated) Process(ctx context.Context, p *domain.Payment) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	draw := s.rng.Float64()
	s.mu.Unlock()

	outcome := domain.OutcomeDeclined
	if draw < s.rate {
		outcome = domain.OutcomeApproved
	}
	s.log.Debug("simulated processing", "currency", p.Amount().Currency(), "outcome", outcome.String())
	return outcome, nil
}

// Fixed always returns the same outcome.
type Fixed struct {
	Outcome domain.Outcome
}

func Approve() Fixed { return Fixed{Outcome: domain.OutcomeApproved} }
func Decline() Fixed { return Fixed{Outcome: domain.OutcomeDeclined} }

func (f Fixed) Process(ctx context.Context, _ *domain.Payment) (domain.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return f.Outcome, nil
}
