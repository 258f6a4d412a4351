package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessageErrors(t *testing.T) {
	err := fmt.Errorf("create: %w", Validation("Name is required"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation")
	}
	if msg, ok := Message(err); !ok || msg != "Name is required" {
		t.Fatalf("unexpected message %q (%v)", msg, ok)
	}

	nf := NotFound("Ticket")
	if !errors.Is(nf, ErrNotFound) || nf.Error() != "Ticket not found" {
		t.Fatalf("unexpected not found error %v", nf)
	}

	bad := WithMessage(ErrInvalidCredentials, "Invalid password")
	if !errors.Is(bad, ErrInvalidCredentials) || errors.Is(bad, ErrValidation) {
		t.Fatalf("unexpected kind matching")
	}

	if _, ok := Message(errors.New("plain")); ok {
		t.Fatalf("plain errors carry no message")
	}
}

func TestDependency(t *testing.T) {
	if Dependency("send", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
	cause := errors.New("smtp down")
	err := Dependency("send reply email", cause)
	if !errors.Is(err, ErrDependency) || !errors.Is(err, cause) {
		t.Fatalf("expected both sentinel and cause to match: %v", err)
	}
}
