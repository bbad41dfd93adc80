package output_test

import (
	"fmt"
	"testing"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/output"
)

func TestSuccessMergesPayloadUnderSuccessTrue(t *testing.T) {
	out := output.Success(map[string]any{"foo": "bar"})

	if out["success"] != true {
		t.Fatalf("expected success=true, got %v", out["success"])
	}

	if out["foo"] != "bar" {
		t.Fatalf("expected payload key preserved, got %v", out["foo"])
	}
}

func TestFailureErrAddsErrorKindForSentinel(t *testing.T) {
	err := fmt.Errorf("%w: unknown operation %q", fault.ErrValidation, "bogus")

	out := output.FailureErr(err)

	if out["success"] != false {
		t.Fatalf("expected success=false, got %v", out["success"])
	}

	if out["error_kind"] != "validation_error" {
		t.Fatalf("expected error_kind=validation_error, got %v", out["error_kind"])
	}
}

func TestFailureErrOmitsErrorKindForUnrecognizedError(t *testing.T) {
	out := output.FailureErr(fmt.Errorf("ordinary failure"))

	if _, ok := out["error_kind"]; ok {
		t.Fatalf("expected no error_kind for a non-sentinel error, got %v", out["error_kind"])
	}
}
