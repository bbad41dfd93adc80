package effects

import (
	"testing"

	"github.com/farcloser/komposer/internal/types"
)

func TestValidateAcyclicDetectsCycle(t *testing.T) {
	doc := &types.EffectDocument{
		RootID: "a",
		Nodes: map[string]*types.EffectNode{
			"a": {EffectID: "a", Kind: types.EffectCrossfadeTransition, AppliesTo: []string{"b"}},
			"b": {EffectID: "b", Kind: types.EffectCrossfadeTransition, AppliesTo: []string{"a"}},
		},
	}

	if err := ValidateAcyclic(doc); err == nil {
		t.Fatal("expected cycle to be detected")
	}
}

func TestPlanOrdersDependenciesBeforeDependents(t *testing.T) {
	doc := &types.EffectDocument{
		RootID: "top",
		Nodes: map[string]*types.EffectNode{
			"top": {EffectID: "top", Kind: types.EffectColorGrade, AppliesTo: []string{"mid"}},
			"mid": {EffectID: "mid", Kind: types.EffectCrossfadeTransition, AppliesTo: []string{"seg1", "seg2"}},
		},
	}

	invocations, err := Plan(doc, 120)
	if err != nil {
		t.Fatal(err)
	}

	if len(invocations) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(invocations))
	}

	if invocations[0].NodeID != "mid" || invocations[1].NodeID != "top" {
		t.Fatalf("expected mid before top, got order %v", []string{invocations[0].NodeID, invocations[1].NodeID})
	}
}

func TestPlanConvertsBeatsToSecondsOnce(t *testing.T) {
	doc := &types.EffectDocument{
		RootID: "wipe",
		Nodes: map[string]*types.EffectNode{
			"wipe": {
				EffectID:  "wipe",
				Kind:      types.EffectGradientWipe,
				AppliesTo: []string{"seg1", "seg2"},
				Parameters: map[string]string{
					"duration_beats": "2",
					"offset_beats":   "4",
				},
			},
		},
	}

	invocations, err := Plan(doc, 120) // 120 bpm -> 0.5s per beat
	if err != nil {
		t.Fatal(err)
	}

	params := invocations[0].Parameters
	if params["duration"] != "1" {
		t.Fatalf("expected duration_beats=2 at 120bpm to convert to 1 second, got %q", params["duration"])
	}

	if params["offset"] != "2" {
		t.Fatalf("expected offset_beats=4 at 120bpm to convert to 2 seconds, got %q", params["offset"])
	}

	if _, stillBeats := params["duration_beats"]; stillBeats {
		t.Fatal("expected beat-denominated key to be replaced, not retained")
	}
}

func TestPlanRejectsUnknownRoot(t *testing.T) {
	doc := &types.EffectDocument{RootID: "missing", Nodes: map[string]*types.EffectNode{}}

	if _, err := Plan(doc, 120); err == nil {
		t.Fatal("expected error for unknown root id")
	}
}
