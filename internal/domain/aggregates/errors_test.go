package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"op and message", NewError(CodeValidation, "money.new", "amount must be positive", nil), "money.new: amount must be positive (validation)"},
		{"op only", NewError(CodeInternal, "repo.save", "", nil), "repo.save (internal)"},
		{"message only", NewError(CodeNotFound, "", "missing", nil), "missing (not_found)"},
		{"code only", NewError(CodeConflict, " ", " ", nil), "conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("error string: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := Validation("payment.create", "customer id is required")
	wrapped := fmt.Errorf("create payment: %w", base)
	if !IsCode(wrapped, CodeValidation) {
		t.Fatalf("expected validation code through fmt wrapping, got %q", CodeOf(wrapped))
	}
	if IsCode(wrapped, CodeNotFound) {
		t.Fatalf("unexpected not_found match")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors carry no code")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodePersistence, "repo.find", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to remain reachable")
	}
	if Wrap(CodePersistence, "repo.find", nil) != nil {
		t.Fatalf("wrapping nil must return nil")
	}
}

func TestMessageOf(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("payments.get", "payment with id %s not found", "p-1"))
	if got := MessageOf(err); got != "payment with id p-1 not found" {
		t.Fatalf("message: want=%q got=%q", "payment with id p-1 not found", got)
	}
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("code: want=not_found got=%q", CodeOf(err))
	}
	if got := MessageOf(errors.New("plain")); got != "plain" {
		t.Fatalf("plain: want=plain got=%q", got)
	}
	if MessageOf(nil) != "" || IsCode(nil, "") {
		t.Fatalf("nil error should have no message or code")
	}
}
