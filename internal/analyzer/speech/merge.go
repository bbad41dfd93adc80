package speech

import "github.com/farcloser/komposer/internal/types"

// Default thresholds for turning raw voice-activity segments into
// SpeechSegments. spec.md does not pin numbers for these, so they are
// chosen here. Gaps shorter than MinSilenceDuration are bridged into the
// same segment rather than splitting it; of those bridged gaps, the ones
// at least PauseMin long are reported as natural pauses (PauseMax exists
// so a caller can narrow the reported range without changing where
// segments actually split).
const (
	defaultMinSpeechDuration  = 0.3  // seconds; shorter voiced runs are dropped as noise
	defaultMinSilenceDuration = 1.5  // seconds; gaps at least this long start a new segment
	defaultPauseMin           = 0.2  // seconds; internal gaps at least this long are "natural pauses"
	defaultPauseMax           = 1.5  // seconds; upper bound on what is reported as a pause
	defaultClearSNRDb         = 18.0 // SNR at/above this is QualityClear
	defaultModerateSNRDb      = 8.0  // SNR at/above this is QualityModerate, else QualityPoor
)

// mergeOptions bundles the tunables above so buildSegments can be
// exercised with non-default values in tests.
type mergeOptions struct {
	MinSpeechDuration  float64
	MinSilenceDuration float64
	PauseMin           float64
	PauseMax           float64
	ClearSNRDb         float64
	ModerateSNRDb      float64
}

func defaultMergeOptions() mergeOptions {
	return mergeOptions{
		MinSpeechDuration:  defaultMinSpeechDuration,
		MinSilenceDuration: defaultMinSilenceDuration,
		PauseMin:           defaultPauseMin,
		PauseMax:           defaultPauseMax,
		ClearSNRDb:         defaultClearSNRDb,
		ModerateSNRDb:      defaultModerateSNRDb,
	}
}

// gap is one internal silence bridged into a voicedRun: its absolute
// midpoint timestamp and its duration, the latter needed to classify it
// as a natural pause.
type gap struct {
	mid      float64
	duration float64
}

// voicedRun is one or more raw VoiceActivitySegments bridged together by
// gaps shorter than MinSilenceDuration.
type voicedRun struct {
	start, end float64
	snrSum     float64
	snrCount   int
	gaps       []gap
}

func (r voicedRun) duration() float64 { return r.end - r.start }

func (r voicedRun) avgSNR() float64 {
	if r.snrCount == 0 {
		return 0
	}

	return r.snrSum / float64(r.snrCount)
}

// confidence is a coarse proxy: longer, higher-SNR runs are more likely
// genuine speech rather than VAD noise.
func (r voicedRun) confidence() float64 {
	durationFactor := clamp01(r.duration() / 1.0)
	snrFactor := clamp01(r.avgSNR() / defaultClearSNRDb)

	return clamp01((durationFactor + snrFactor) / 2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}

// buildSegments bridges short gaps between raw voice-activity runs, drops
// runs shorter than MinSpeechDuration, and annotates each surviving
// segment with its internal natural pauses, cut points, and quality
// bucket. raw must already be sorted ascending by StartSec.
func buildSegments(raw []types.VoiceActivitySegment, opts mergeOptions) []types.SpeechSegment {
	bridged := bridgeGaps(raw, opts.MinSilenceDuration)

	segments := make([]types.SpeechSegment, 0, len(bridged))

	for _, run := range bridged {
		if run.duration() < opts.MinSpeechDuration {
			continue
		}

		seg := types.SpeechSegment{
			StartSec:   run.start,
			EndSec:     run.end,
			Confidence: run.confidence(),
			Quality:    qualityFor(run.avgSNR(), opts),
		}

		seg.NaturalPauses = naturalPauses(run.gaps, opts.PauseMin, opts.PauseMax)
		seg.OptimalCutPoints = cutPoints(seg)

		segments = append(segments, seg)
	}

	return segments
}

func bridgeGaps(raw []types.VoiceActivitySegment, minSilence float64) []voicedRun {
	var runs []voicedRun

	for _, seg := range raw {
		if len(runs) == 0 {
			runs = append(runs, voicedRun{start: seg.StartSec, end: seg.EndSec, snrSum: seg.SNRDb, snrCount: 1})
			continue
		}

		last := &runs[len(runs)-1]

		silence := seg.StartSec - last.end
		if silence < minSilence {
			last.gaps = append(last.gaps, gap{mid: last.end + silence/2, duration: silence})
			last.end = seg.EndSec
			last.snrSum += seg.SNRDb
			last.snrCount++

			continue
		}

		runs = append(runs, voicedRun{start: seg.StartSec, end: seg.EndSec, snrSum: seg.SNRDb, snrCount: 1})
	}

	return runs
}

// naturalPauses keeps the bridged gaps whose duration falls within
// [pauseMin, pauseMax] — long enough to be a deliberate breath or beat,
// not VAD flicker, and within the range a caller cares to see reported.
func naturalPauses(gaps []gap, pauseMin, pauseMax float64) []float64 {
	var pauses []float64

	for _, g := range gaps {
		if g.duration >= pauseMin && g.duration <= pauseMax {
			pauses = append(pauses, g.mid)
		}
	}

	return pauses
}

func qualityFor(avgSNR float64, opts mergeOptions) types.SpeechQuality {
	switch {
	case avgSNR >= opts.ClearSNRDb:
		return types.QualityClear
	case avgSNR >= opts.ModerateSNRDb:
		return types.QualityModerate
	default:
		return types.QualityPoor
	}
}

// cutPoints marks the segment's start and end as high-priority cuts and
// each natural pause as medium priority, per spec.md section 4.E.
func cutPoints(seg types.SpeechSegment) []types.CutPoint {
	points := []types.CutPoint{
		{TimeSec: seg.StartSec, Kind: types.CutSpeechStart, Priority: types.PriorityHigh},
	}

	for _, p := range seg.NaturalPauses {
		points = append(points, types.CutPoint{TimeSec: p, Kind: types.CutNaturalPause, Priority: types.PriorityMedium})
	}

	points = append(points, types.CutPoint{TimeSec: seg.EndSec, Kind: types.CutSpeechEnd, Priority: types.PriorityHigh})

	return points
}
