package speech

import (
	"testing"

	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/types"
)

func TestBridgeGapsMergesShortSilence(t *testing.T) {
	raw := []types.VoiceActivitySegment{
		{StartSec: 0, EndSec: 1, SNRDb: 20},
		{StartSec: 1.1, EndSec: 2, SNRDb: 20}, // 0.1s gap, below default 1.5s minSilence
	}

	segments := buildSegments(raw, defaultMergeOptions())

	if len(segments) != 1 {
		t.Fatalf("expected a single bridged segment, got %d", len(segments))
	}

	if segments[0].StartSec != 0 || segments[0].EndSec != 2 {
		t.Fatalf("expected bridged span [0,2), got [%v,%v)", segments[0].StartSec, segments[0].EndSec)
	}
}

func TestBridgeGapsSplitsLongSilence(t *testing.T) {
	raw := []types.VoiceActivitySegment{
		{StartSec: 0, EndSec: 1, SNRDb: 20},
		{StartSec: 3, EndSec: 4, SNRDb: 20}, // 2s gap, above default 1.5s minSilence
	}

	segments := buildSegments(raw, defaultMergeOptions())

	if len(segments) != 2 {
		t.Fatalf("expected two segments split by the long gap, got %d", len(segments))
	}
}

func TestBuildSegmentsDropsShortRuns(t *testing.T) {
	raw := []types.VoiceActivitySegment{
		{StartSec: 0, EndSec: 0.1, SNRDb: 20}, // below default 0.3s minSpeechDuration
	}

	segments := buildSegments(raw, defaultMergeOptions())
	if len(segments) != 0 {
		t.Fatalf("expected short run to be dropped, got %d segments", len(segments))
	}
}

func TestNaturalPausesWithinRange(t *testing.T) {
	opts := defaultMergeOptions()
	opts.MinSilenceDuration = 2.0 // widen bridging so both gaps below land in one run

	raw := []types.VoiceActivitySegment{
		{StartSec: 0, EndSec: 1, SNRDb: 20},
		{StartSec: 1.05, EndSec: 2, SNRDb: 20}, // 0.05s gap, below pauseMin
		{StartSec: 2.5, EndSec: 3, SNRDb: 20},  // 0.5s gap, within [pauseMin,pauseMax]
	}

	segments := buildSegments(raw, opts)
	if len(segments) != 1 {
		t.Fatalf("expected a single bridged segment, got %d", len(segments))
	}

	if len(segments[0].NaturalPauses) != 1 {
		t.Fatalf("expected exactly one reported natural pause, got %v", segments[0].NaturalPauses)
	}
}

func TestQualityForBuckets(t *testing.T) {
	opts := defaultMergeOptions()

	if got := qualityFor(20, opts); got != types.QualityClear {
		t.Fatalf("expected QualityClear at 20dB, got %v", got)
	}

	if got := qualityFor(10, opts); got != types.QualityModerate {
		t.Fatalf("expected QualityModerate at 10dB, got %v", got)
	}

	if got := qualityFor(2, opts); got != types.QualityPoor {
		t.Fatalf("expected QualityPoor at 2dB, got %v", got)
	}
}

func TestCutPointsBracketSegment(t *testing.T) {
	seg := types.SpeechSegment{StartSec: 1, EndSec: 5, NaturalPauses: []float64{3}}

	points := cutPoints(seg)
	if len(points) != 3 {
		t.Fatalf("expected start, pause, and end cut points, got %d", len(points))
	}

	if points[0].Kind != types.CutSpeechStart || points[0].Priority != types.PriorityHigh {
		t.Fatalf("expected high-priority start cut point, got %+v", points[0])
	}

	if points[1].Kind != types.CutNaturalPause || points[1].Priority != types.PriorityMedium {
		t.Fatalf("expected medium-priority pause cut point, got %+v", points[1])
	}

	if points[2].Kind != types.CutSpeechEnd || points[2].Priority != types.PriorityHigh {
		t.Fatalf("expected high-priority end cut point, got %+v", points[2])
	}
}

func TestInvertSilencesComplementsIntervals(t *testing.T) {
	silences := []ffmpeg.SilenceInterval{{Start: 1, End: 2}, {Start: 4, End: 5}}

	segments := invertSilences(silences, 6)

	want := [][2]float64{{0, 1}, {2, 4}, {5, 6}}
	if len(segments) != len(want) {
		t.Fatalf("expected %d voiced spans, got %d: %v", len(want), len(segments), segments)
	}

	for i, w := range want {
		if segments[i].StartSec != w[0] || segments[i].EndSec != w[1] {
			t.Fatalf("span %d: expected [%v,%v), got [%v,%v)", i, w[0], w[1], segments[i].StartSec, segments[i].EndSec)
		}
	}
}

func TestInsightsSummarizesSegments(t *testing.T) {
	segments := []types.SpeechSegment{
		{StartSec: 0, EndSec: 2, Quality: types.QualityClear},
		{StartSec: 3, EndSec: 4, Quality: types.QualityPoor},
	}

	insights := Insights(segments, 10)

	if insights.TotalSpeechSec != 3 {
		t.Fatalf("expected 3s total speech, got %v", insights.TotalSpeechSec)
	}

	if insights.QualityHistogram[types.QualityClear] != 1 || insights.QualityHistogram[types.QualityPoor] != 1 {
		t.Fatalf("unexpected quality histogram: %v", insights.QualityHistogram)
	}
}
