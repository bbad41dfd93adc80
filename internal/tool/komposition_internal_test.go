package tool

import (
	"testing"

	"github.com/farcloser/komposer/internal/types"
)

func TestFinalHandleIDUsesPlanFinalStep(t *testing.T) {
	plan := types.BuildPlan{FinalStep: 1}
	handles := []types.FileHandle{{ID: "file_aaaaaaaa"}, {ID: "file_bbbbbbbb"}, {ID: "file_cccccccc"}}

	got := finalHandleID(plan, handles)
	if got != "file_bbbbbbbb" {
		t.Fatalf("expected the FinalStep-indexed handle, got %q", got)
	}
}

func TestFinalHandleIDFallsBackToLastOnOutOfRangeFinalStep(t *testing.T) {
	plan := types.BuildPlan{FinalStep: 99}
	handles := []types.FileHandle{{ID: "file_aaaaaaaa"}, {ID: "file_bbbbbbbb"}}

	got := finalHandleID(plan, handles)
	if got != "file_bbbbbbbb" {
		t.Fatalf("expected the last handle as fallback, got %q", got)
	}
}

func TestFinalHandleIDEmptyForNoHandles(t *testing.T) {
	if got := finalHandleID(types.BuildPlan{FinalStep: -1}, nil); got != "" {
		t.Fatalf("expected empty string for no handles, got %q", got)
	}
}
