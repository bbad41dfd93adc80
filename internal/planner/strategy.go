package planner

import "github.com/farcloser/komposer/internal/types"

// selectStrategy picks how seg's source range is fitted into its beat-derived
// slot (spec.md section 4.F, steps 1-5):
//
//  1. If the source plays out within epsilon of the slot at normal speed,
//     take it whole (a trivial time_stretch with factor 1).
//  2. If the source is longer than the slot, it must be cut down
//     (smart_cut), with fit_strategy deciding which sub-range survives.
//  3. If the source is shorter than the slot, it must be slowed down
//     (time_stretch).
//  4. Whenever a smart_cut would otherwise need left/right padding to fill
//     the slot exactly, prefer a hybrid residual stretch within
//     [1-epsilon, 1+epsilon] over plain center padding (DESIGN.md open
//     question 1) — it avoids a held frame or padded silence in the render.
func selectStrategy(seg types.Segment, slotSeconds, epsilon float64) types.Strategy {
	sourceSeconds := sourceDuration(seg)

	if within(sourceSeconds, slotSeconds, epsilon) {
		return types.Strategy{
			Kind:          types.StrategyTimeStretch,
			StretchFactor: 1,
			SourceStart:   rangeStart(seg),
			SourceEnd:     rangeStart(seg) + sourceSeconds,
		}
	}

	if sourceSeconds > slotSeconds {
		start := rangeStart(seg)
		end := start + slotSeconds

		residual := slotSeconds / sourceSeconds
		if within(residual, 1, epsilon) {
			return types.Strategy{
				Kind:                  types.StrategyHybrid,
				SourceStart:           start,
				SourceEnd:             start + sourceSeconds,
				FitStrategy:           types.FitMinimalStretch,
				ResidualStretchFactor: residual,
			}
		}

		return types.Strategy{
			Kind:        types.StrategySmartCut,
			SourceStart: start,
			SourceEnd:   end,
			FitStrategy: types.FitCenter,
		}
	}

	return types.Strategy{
		Kind:          types.StrategyTimeStretch,
		StretchFactor: slotSeconds / sourceSeconds,
		SourceStart:   rangeStart(seg),
		SourceEnd:     rangeStart(seg) + sourceSeconds,
	}
}

func within(a, b, epsilon float64) bool {
	if b == 0 {
		return a == 0
	}

	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	return diff/b <= epsilon
}

func sourceDuration(seg types.Segment) float64 {
	if seg.SourceTiming.Kind == types.TimingStatic {
		return seg.SourceTiming.StaticDuration
	}

	return seg.SourceTiming.OriginalDuration
}

func rangeStart(seg types.Segment) float64 {
	if seg.SourceTiming.Kind == types.TimingStatic {
		return 0
	}

	return seg.SourceTiming.OriginalStart
}
