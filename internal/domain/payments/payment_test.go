package payments

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/payments-example/internal/domain/aggregates"
	"github.com/yungbote/payments-example/internal/domain/entity"
)

func newPending(t *testing.T) *Payment {
	t.Helper()
	amount, err := MoneyFromFloat(100, "USD")
	if err != nil {
		t.Fatalf("money: %v", err)
	}
	tr, err := Create(NewPayment{Amount: amount, CustomerID: "c1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return tr.Value()
}

func TestCreateForcesPending(t *testing.T) {
	p := newPending(t)
	if p.Status() != StatusPending {
		t.Fatalf("status: want=%s got=%s", StatusPending, p.Status())
	}
	if !p.Metadata().IsEmpty() {
		t.Fatalf("metadata should default to empty")
	}
	if _, ok := p.Description(); ok {
		t.Fatalf("description should be absent")
	}
}

func TestCreateValidation(t *testing.T) {
	amount, _ := MoneyFromFloat(1, "USD")
	if _, err := Create(NewPayment{Amount: amount, CustomerID: "  "}); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("blank customer: expected validation error, got %v", err)
	}
	if _, err := Create(NewPayment{CustomerID: "c1"}); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("zero money: expected validation error, got %v", err)
	}
	empty := ""
	tr, err := Create(NewPayment{Amount: amount, CustomerID: "c1", Description: &empty})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := tr.Value().Description(); ok {
		t.Fatalf("empty description should be normalized to absent")
	}
}

func TestTransitionsFromPending(t *testing.T) {
	cases := []struct {
		name  string
		first func(*Payment) error
		want  Status
	}{
		{"complete", (*Payment).Complete, StatusCompleted},
		{"fail", (*Payment).Fail, StatusFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newPending(t)
			if err := tc.first(p); err != nil {
				t.Fatalf("first transition: %v", err)
			}
			if p.Status() != tc.want {
				t.Fatalf("status: want=%s got=%s", tc.want, p.Status())
			}
			for _, next := range []func(*Payment) error{(*Payment).Complete, (*Payment).Fail} {
				if err := next(p); !aggregates.IsCode(err, aggregates.CodeInvalidStateTransition) {
					t.Fatalf("second transition: expected invalid_state_transition, got %v", err)
				}
				if p.Status() != tc.want {
					t.Fatalf("status changed after rejected transition: want=%s got=%s", tc.want, p.Status())
				}
			}
		})
	}
}

func TestTransitionsRequirePendingOrigin(t *testing.T) {
	for name, move := range map[string]func(*Payment) error{
		"complete": (*Payment).Complete,
		"fail":     (*Payment).Fail,
	} {
		t.Run(name, func(t *testing.T) {
			p := &Payment{}
			if err := move(p); !aggregates.IsCode(err, aggregates.CodeInvalidStateTransition) {
				t.Fatalf("zero-value payment: expected invalid_state_transition, got %v", err)
			}
			if p.Status() != "" {
				t.Fatalf("status changed after rejected transition: got=%q", p.Status())
			}
		})
	}
}

func TestApplyOutcome(t *testing.T) {
	p := newPending(t)
	if err := p.Apply(OutcomeDeclined); err != nil {
		t.Fatalf("apply declined: %v", err)
	}
	if p.Status() != StatusFailed {
		t.Fatalf("status: want=%s got=%s", StatusFailed, p.Status())
	}

	q := newPending(t)
	if err := q.Apply(Outcome(0)); !aggregates.IsCode(err, aggregates.CodeValidation) {
		t.Fatalf("unknown outcome: expected validation error, got %v", err)
	}
	if q.Status() != StatusPending {
		t.Fatalf("unknown outcome must not change status")
	}
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	amount, _ := NewMoney(decimal.RequireFromString("42.50"), "EUR")
	desc := "order 17"
	tr, err := Create(NewPayment{
		Amount:      amount,
		CustomerID:  "cust-9",
		Description: &desc,
		Metadata:    NewMetadata(map[string]any{"channel": "web", "tags": []any{"a", "b"}}),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tr.Value().Complete(); err != nil {
		t.Fatalf("complete: %v", err)
	}

	now := time.Now().UTC()
	meta, err := entity.NewMeta(uuid.New(), now, now)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	loaded, err := Load(meta, tr.Value().Snapshot())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := loaded.Value()
	if got.Status() != StatusCompleted {
		t.Fatalf("status: want=%s got=%s", StatusCompleted, got.Status())
	}
	if !got.Amount().Equal(amount) {
		t.Fatalf("amount: want=%s got=%s", amount, got.Amount())
	}
	if d, _ := got.Description(); d != desc {
		t.Fatalf("description: want=%q got=%q", desc, d)
	}
	if !got.Metadata().Equal(tr.Value().Metadata()) {
		t.Fatalf("metadata mismatch: want=%v got=%v", tr.Value().Metadata().Props(), got.Metadata().Props())
	}
	if loaded.ID() != meta.ID() {
		t.Fatalf("id: want=%s got=%s", meta.ID(), loaded.ID())
	}
}

func TestLoadFailsLoudlyOnCorruptRows(t *testing.T) {
	now := time.Now().UTC()
	meta, _ := entity.NewMeta(uuid.New(), now, now)
	good := Snapshot{Amount: decimal.NewFromInt(5), Currency: "USD", Status: "PENDING", CustomerID: "c1"}

	cases := map[string]func(*Snapshot){
		"lowercase currency": func(s *Snapshot) { s.Currency = "usd" },
		"negative amount":    func(s *Snapshot) { s.Amount = decimal.NewFromInt(-1) },
		"unknown status":     func(s *Snapshot) { s.Status = "REFUNDED" },
		"empty customer":     func(s *Snapshot) { s.CustomerID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := good
			mutate(&s)
			if _, err := Load(meta, s); !aggregates.IsCode(err, aggregates.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if _, err := Load(meta, good); err != nil {
		t.Fatalf("good snapshot: %v", err)
	}
}
