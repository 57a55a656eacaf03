package payments

import (
	"strings"

	"github.com/yungbote/payments-example/internal/domain/aggregates"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.TrimSpace(raw)); s {
	case StatusPending, StatusCompleted, StatusFailed:
		return s, nil
	default:
		return "", aggregates.Validation("payment.status", "unknown payment status %q", raw)
	}
}

func (s Status) String() string { return string(s) }

// Outcome is the verdict of the processing collaborator.
type Outcome int

const (
	OutcomeApproved Outcome = iota + 1
	OutcomeDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApproved:
		return "approved"
	case OutcomeDeclined:
		return "declined"
	default:
		return "unknown"
	}
}
