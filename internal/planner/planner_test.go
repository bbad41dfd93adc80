package planner

import (
	"testing"

	"github.com/farcloser/komposer/internal/types"
)

func twoSegmentKomposition() types.Komposition {
	return types.Komposition{
		BPM:             120,
		BeatsPerMeasure: 4,
		Config:          types.Config{Width: 1280, Height: 720, FrameRate: 30, Container: "mp4"},
		Sources: []types.Source{
			{ID: "clip1", URL: "file://clip1.mp4", MediaType: types.MediaVideo},
			{ID: "clip2", URL: "file://clip2.mp4", MediaType: types.MediaVideo},
		},
		Segments: []types.Segment{
			{
				SegmentID: "seg1", SourceRef: "clip1", StartBeat: 0, EndBeat: 8,
				SourceTiming: types.SourceTiming{Kind: types.TimingOriginal, OriginalStart: 0, OriginalDuration: 4},
			},
			{
				SegmentID: "seg2", SourceRef: "clip2", StartBeat: 8, EndBeat: 16,
				SourceTiming: types.SourceTiming{Kind: types.TimingOriginal, OriginalStart: 2, OriginalDuration: 10},
			},
		},
	}
}

func TestValidateRejectsEndBeatNotAfterStartBeat(t *testing.T) {
	k := twoSegmentKomposition()
	k.Segments[0].EndBeat = k.Segments[0].StartBeat

	if err := validate(k); err == nil {
		t.Fatal("expected rejection of end_beat <= start_beat")
	}
}

func TestValidateRejectsUnknownSourceRef(t *testing.T) {
	k := twoSegmentKomposition()
	k.Segments[0].SourceRef = "nonexistent"

	if err := validate(k); err == nil {
		t.Fatal("expected rejection of unknown source_ref")
	}
}

func TestPreviewTimingProjectsCumulativeTimeline(t *testing.T) {
	k := twoSegmentKomposition()

	plans, err := PreviewTiming(k, 0.10)
	if err != nil {
		t.Fatal(err)
	}

	if len(plans) != 2 {
		t.Fatalf("expected 2 segment plans, got %d", len(plans))
	}

	if plans[0].ProjectedStart != 0 {
		t.Fatalf("expected first segment to start at 0, got %v", plans[0].ProjectedStart)
	}

	if plans[1].ProjectedStart != plans[0].ProjectedEnd {
		t.Fatalf("expected second segment to start where the first ends, got %v != %v", plans[1].ProjectedStart, plans[0].ProjectedEnd)
	}
}

func TestPlanSelectsSmartCutForOverlongSource(t *testing.T) {
	k := twoSegmentKomposition()
	// seg2's slot is 4s (8 beats at 120bpm), its source is 10s: must cut down,
	// and 4/10 = 0.4 is well outside epsilon, so plain smart_cut, not hybrid.
	plans, err := PreviewTiming(k, 0.10)
	if err != nil {
		t.Fatal(err)
	}

	if plans[1].Strategy.Kind != types.StrategySmartCut {
		t.Fatalf("expected smart_cut for segment 2, got %s", plans[1].Strategy)
	}
}

func TestPlanBuildsConcatenateAndMixSteps(t *testing.T) {
	k := twoSegmentKomposition()

	plan, err := Plan(k, 0.10)
	if err != nil {
		t.Fatal(err)
	}

	if len(plan.Steps) != 4 { // render seg1, render seg2, concatenate_final, mix_audio
		t.Fatalf("expected 4 steps, got %d: %+v", len(plan.Steps), plan.Steps)
	}

	if plan.Steps[len(plan.Steps)-1].Operation != opMixAudio {
		t.Fatalf("expected final step to be mix_audio, got %s", plan.Steps[len(plan.Steps)-1].Operation)
	}

	if plan.FinalStep != len(plan.Steps)-1 {
		t.Fatalf("expected FinalStep to point at the mix_audio step")
	}
}

func TestPlanRejectsInvalidKomposition(t *testing.T) {
	k := twoSegmentKomposition()
	k.BPM = 0

	if _, err := Plan(k, 0.10); err == nil {
		t.Fatal("expected rejection of a komposition with bpm <= 0")
	}
}
