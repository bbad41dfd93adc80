// Package komposer is the root facade: it re-exports the Komposition
// document model and exposes the top-level Plan/Process/Evaluate entry
// points a caller embeds without reaching into internal/.
package komposer

import "github.com/farcloser/komposer/internal/types"

// Komposition is the input document: sources, beat-aligned segments, and an
// optional effects tree, as described by spec.md section 9.
type Komposition = types.Komposition

// Segment, Source, and BuildPlan are re-exported so callers constructing or
// inspecting komposition documents never need to import internal/types
// directly.
type (
	Segment   = types.Segment
	Source    = types.Source
	BuildPlan = types.BuildPlan
)

// Bands defines severity/quality thresholds for a continuously valued
// signal. Direction is implicit: if Mild < Severe, higher values are worse
// (ascending); if Mild > Severe, lower values are worse (descending).
type Bands struct {
	Mild     float64
	Moderate float64
	Severe   float64
}

// Severity is the discrete bucket a Bands match falls into.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "no issue"
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	default:
		return "unknown"
	}
}

// Match returns the severity bucket for value, or (SeverityNone, false) when
// value falls below the Mild threshold.
func (b Bands) Match(value float64) (Severity, bool) {
	if b.Mild <= b.Severe {
		if value >= b.Severe {
			return SeveritySevere, true
		}

		if value >= b.Moderate {
			return SeverityModerate, true
		}

		if value >= b.Mild {
			return SeverityMild, true
		}
	} else {
		if value <= b.Severe {
			return SeveritySevere, true
		}

		if value <= b.Moderate {
			return SeverityModerate, true
		}

		if value <= b.Mild {
			return SeverityMild, true
		}
	}

	return SeverityNone, false
}

// Options configures the top-level Plan/Process/Evaluate facade.
type Options struct {
	// Epsilon bounds how far a hybrid strategy's residual_stretch_factor may
	// sit from 1.0 and still be preferred over plain center padding
	// (default: 0.10, see DESIGN.md open question 1).
	Epsilon float64

	// BackgroundVolume and SpeechVolume are mix levels (default: 0.25 and
	// 1.0). Plan does not read them: the planner's AudioTimingManifest
	// always uses background volume 0.25 and overlay volume 1.0.
	BackgroundVolume float64
	SpeechVolume     float64

	// FadeIn/FadeOut are background fade durations, in seconds (default:
	// 1.0 each). Plan does not read them either: the planner's manifest
	// always uses 1.0 for both background fades.
	FadeIn  float64
	FadeOut float64

	// ProcessTimeout bounds each individual operation invocation (default:
	// 300 seconds, see internal/executor).
	ProcessTimeout float64
}

// DefaultOptions returns komposer's stated defaults.
func DefaultOptions() Options {
	return Options{
		Epsilon:          0.10,
		BackgroundVolume: 0.25,
		SpeechVolume:     1.0,
		FadeIn:           1.0,
		FadeOut:          1.0,
		ProcessTimeout:   300,
	}
}
