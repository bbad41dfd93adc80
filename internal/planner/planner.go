// Package planner implements the Composition Planner (spec.md section
// 4.F): it turns a Komposition into an ordered, executable BuildPlan,
// choosing a fit Strategy for every segment and assembling the final
// concatenation and audio-mix steps.
package planner

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/farcloser/komposer/internal/effects"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

const (
	opRenderSegment    = "render_segment"
	opConcatenateFinal = "concatenate_final"
	opMixAudio         = "mix_audio"
	opApplyEffects     = "apply_effects"
)

// Plan builds the full BuildPlan for a Komposition. epsilon is the
// tolerance used by strategy selection (DESIGN.md open question 1;
// spec.md default 0.10).
func Plan(k types.Komposition, epsilon float64) (types.BuildPlan, error) {
	if err := validate(k); err != nil {
		return types.BuildPlan{}, err
	}

	segmentPlans, err := PreviewTiming(k, epsilon)
	if err != nil {
		return types.BuildPlan{}, err
	}

	steps := make([]types.PlanStep, 0, len(k.Segments)*2+2)
	renderIndex := make([]int, len(k.Segments))

	for i, seg := range k.Segments {
		sp := segmentPlans[i]

		steps = append(steps, types.PlanStep{
			Operation:       opRenderSegment,
			InputFileID:     seg.SourceRef,
			OutputExtension: k.Config.Container,
			Params:          strategyParams(sp.Strategy),
			Provenance:      seg.SegmentID,
		})
		renderIndex[i] = len(steps) - 1
	}

	finalVideoStep := renderIndex[0]

	for i := 1; i < len(k.Segments); i++ {
		input := fmt.Sprintf("RESULT_%d", finalVideoStep+1)
		if i > 1 {
			input = "CHAIN"
		}

		steps = append(steps, types.PlanStep{
			Operation:       opConcatenateFinal,
			InputFileID:     input,
			OutputExtension: k.Config.Container,
			Params:          map[string]string{"second_video": fmt.Sprintf("RESULT_%d", renderIndex[i]+1)},
			Provenance:      "concatenate",
		})
		finalVideoStep = len(steps) - 1
	}

	manifest := buildManifest(k, segmentPlans)

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return types.BuildPlan{}, fmt.Errorf("%w: encoding audio timing manifest: %w", fault.ErrInvalidJSON, err)
	}

	mixInput := "CHAIN"
	if len(k.Segments) == 1 {
		mixInput = fmt.Sprintf("RESULT_%d", finalVideoStep+1)
	}

	steps = append(steps, types.PlanStep{
		Operation:       opMixAudio,
		InputFileID:     mixInput,
		OutputExtension: k.Config.Container,
		Params:          map[string]string{"manifest_json": string(manifestJSON)},
		Provenance:      "audio_mix",
	})
	finalStep := len(steps) - 1

	if k.EffectsTree != nil {
		if err := effects.ValidateAcyclic(k.EffectsTree); err != nil {
			return types.BuildPlan{}, err
		}

		effectsJSON, err := json.Marshal(k.EffectsTree)
		if err != nil {
			return types.BuildPlan{}, fmt.Errorf("%w: encoding effects tree: %w", fault.ErrInvalidJSON, err)
		}

		steps = append(steps, types.PlanStep{
			Operation:       opApplyEffects,
			InputFileID:     "CHAIN",
			OutputExtension: k.Config.Container,
			Params:          map[string]string{"effects_json": string(effectsJSON), "bpm": strconv.FormatFloat(k.BPM, 'f', -1, 64)},
			Provenance:      "effects",
		})
		finalStep = len(steps) - 1
	}

	return types.BuildPlan{
		Steps:       steps,
		FinalStep:   finalStep,
		Manifest:    manifest,
		SegmentPlan: segmentPlans,
	}, nil
}

// PreviewTiming runs strategy selection and projected-timeline computation
// without assembling executable steps (the preview_timing tool contract,
// spec.md section 6).
func PreviewTiming(k types.Komposition, epsilon float64) ([]types.SegmentPlan, error) {
	if err := validate(k); err != nil {
		return nil, err
	}

	plans := make([]types.SegmentPlan, len(k.Segments))

	var cursor float64

	for i, seg := range k.Segments {
		slot := seg.TimeSlotSeconds(k.BPM)
		strat := selectStrategy(seg, slot, epsilon)

		plans[i] = types.SegmentPlan{
			SegmentID:       seg.SegmentID,
			TimeSlotSeconds: slot,
			Strategy:        strat,
			ProjectedStart:  cursor,
			ProjectedEnd:    cursor + slot,
		}

		cursor += slot
	}

	return plans, nil
}

func strategyParams(s types.Strategy) map[string]string {
	return map[string]string{
		"strategy_kind":           s.String(),
		"stretch_factor":          strconv.FormatFloat(s.StretchFactor, 'f', -1, 64),
		"source_start":            strconv.FormatFloat(s.SourceStart, 'f', -1, 64),
		"source_end":              strconv.FormatFloat(s.SourceEnd, 'f', -1, 64),
		"fit_strategy":            s.FitStrategy.String(),
		"residual_stretch_factor": strconv.FormatFloat(s.ResidualStretchFactor, 'f', -1, 64),
	}
}

func buildManifest(k types.Komposition, plans []types.SegmentPlan) types.AudioTimingManifest {
	manifest := types.AudioTimingManifest{
		Background: types.BackgroundTrack{Volume: 0.25, FadeIn: 1, FadeOut: 1},
	}

	for _, sp := range plans {
		manifest.Overlays = append(manifest.Overlays, types.SpeechOverlay{
			SegmentID: sp.SegmentID,
			InsertAt:  sp.ProjectedStart,
			Duration:  sp.TimeSlotSeconds,
			Volume:    1,
			FadeIn:    0.1,
			FadeOut:   0.1,
		})
	}

	return manifest
}
