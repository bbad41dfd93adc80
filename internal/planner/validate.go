package planner

import (
	"fmt"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

// validate checks a Komposition's invariants before any planning is
// attempted (spec.md section 9).
func validate(k types.Komposition) error {
	if k.BPM <= 0 {
		return fmt.Errorf("%w: bpm must be positive, got %v", fault.ErrValidation, k.BPM)
	}

	if k.BeatsPerMeasure <= 0 {
		return fmt.Errorf("%w: beats_per_measure must be positive, got %v", fault.ErrValidation, k.BeatsPerMeasure)
	}

	if len(k.Segments) == 0 {
		return fmt.Errorf("%w: komposition has no segments", fault.ErrValidation)
	}

	for _, seg := range k.Segments {
		if seg.EndBeat <= seg.StartBeat {
			return fmt.Errorf(
				"%w: segment %q has end_beat (%d) <= start_beat (%d)",
				fault.ErrValidation, seg.SegmentID, seg.EndBeat, seg.StartBeat,
			)
		}

		if _, ok := k.SourceByID(seg.SourceRef); !ok {
			return fmt.Errorf("%w: segment %q references unknown source %q", fault.ErrValidation, seg.SegmentID, seg.SourceRef)
		}

		if sourceDuration(seg) <= 0 {
			return fmt.Errorf("%w: segment %q has non-positive source duration", fault.ErrValidation, seg.SegmentID)
		}
	}

	if k.BeatPattern != nil {
		if k.BeatPattern.ToBeat <= k.BeatPattern.FromBeat {
			return fmt.Errorf(
				"%w: beat_pattern to_beat (%d) <= from_beat (%d)",
				fault.ErrValidation, k.BeatPattern.ToBeat, k.BeatPattern.FromBeat,
			)
		}
	}

	return nil
}
