package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestEngineErrorFormat(t *testing.T) {
	err := New(BudgetExceeded, "budget exceeded", nil)
	if got := err.Error(); got != "[BUDGET_EXCEEDED] budget exceeded" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := New(InternalError, "render failed", fmt.Errorf("boom"))
	if !strings.Contains(wrapped.Error(), "boom") {
		t.Errorf("Error() should include cause, got %q", wrapped.Error())
	}
}

func TestEngineErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New(InternalError, "scan failed", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestConfigErrorListsAllViolations(t *testing.T) {
	err := NewConfigError([]Violation{
		{Field: "budget", Message: "must be positive"},
		{Field: "verbosity[0].level", Message: "must be 0-4"},
	})

	msg := err.Error()
	if !strings.Contains(msg, "budget") || !strings.Contains(msg, "verbosity[0].level") {
		t.Errorf("ConfigError should list every violation, got %q", msg)
	}
	if err.Code() != ConfigInvalid {
		t.Errorf("Code() = %v, want %v", err.Code(), ConfigInvalid)
	}
}
