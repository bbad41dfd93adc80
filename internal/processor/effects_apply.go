package processor

import (
	"context"
	"fmt"
	"strconv"

	"github.com/farcloser/komposer/internal/effects"
	"github.com/farcloser/komposer/internal/executor"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

// applyEffects realizes one apply_effects step: decode the document and
// replay its dependency-ordered Invocations against the running CHAIN
// video, deriving each referenced segment's clip via trim on CHAIN and
// each referenced node's clip from that node's own prior output.
func (p *Processor) applyEffects(
	ctx context.Context,
	step types.PlanStep,
	inputID string,
	segmentWindows map[string][2]float64,
) (types.FileHandle, string, error) {
	var doc types.EffectDocument
	if err := jsonParam(step, "effects_json", &doc); err != nil {
		return types.FileHandle{}, "", err
	}

	bpmRaw, ok := step.Params["bpm"]
	if !ok {
		return types.FileHandle{}, "", fmt.Errorf("%w: apply_effects missing bpm param", fault.ErrValidation)
	}

	bpm, err := strconv.ParseFloat(bpmRaw, 64)
	if err != nil {
		return types.FileHandle{}, "", fmt.Errorf("%w: apply_effects bpm %q is not numeric", fault.ErrValidation, bpmRaw)
	}

	invocations, err := effects.Plan(&doc, bpm)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	chainPath, err := p.reg.Resolve(inputID)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	nodeOutputs := make(map[string]types.FileHandle, len(invocations))

	var lastStderr string

	for _, inv := range invocations {
		clips, err := p.resolveInvocationInputs(ctx, inv, chainPath, segmentWindows, nodeOutputs, step.OutputExtension)
		if err != nil {
			return types.FileHandle{}, lastStderr, err
		}

		out, stderrTail, err := p.realizeInvocation(ctx, inv, clips, step.OutputExtension)
		lastStderr = stderrTail

		if err != nil {
			return types.FileHandle{}, stderrTail, err
		}

		nodeOutputs[inv.NodeID] = out
	}

	out, ok := nodeOutputs[doc.RootID]
	if !ok {
		return types.FileHandle{}, "", fmt.Errorf("%w: effects document root %q produced no output", fault.ErrValidation, doc.RootID)
	}

	return out, lastStderr, nil
}

// resolveInvocationInputs turns an Invocation's Inputs (segment ids and/or
// prior node ids) into concrete clip paths, trimming CHAIN at the
// segment's projected window where needed.
func (p *Processor) resolveInvocationInputs(
	ctx context.Context,
	inv effects.Invocation,
	chainPath string,
	segmentWindows map[string][2]float64,
	nodeOutputs map[string]types.FileHandle,
	outputExtension string,
) ([]string, error) {
	clips := make([]string, 0, len(inv.Inputs))

	for _, ref := range inv.Inputs {
		if window, ok := segmentWindows[ref]; ok {
			clip, err := p.trimChainWindow(ctx, chainPath, window, outputExtension)
			if err != nil {
				return nil, err
			}

			clips = append(clips, clip)

			continue
		}

		if handle, ok := nodeOutputs[ref]; ok {
			path, err := p.reg.Resolve(handle.ID)
			if err != nil {
				return nil, err
			}

			clips = append(clips, path)

			continue
		}

		return nil, fmt.Errorf("%w: effect node %q references unknown input %q", fault.ErrValidation, inv.NodeID, ref)
	}

	return clips, nil
}

func (p *Processor) trimChainWindow(ctx context.Context, chainPath string, window [2]float64, outputExtension string) (string, error) {
	start := window[0]
	duration := window[1] - window[0]

	argv := []string{
		"-ss", strconv.FormatFloat(start, 'f', 6, 64),
		"-i", chainPath,
		"-t", strconv.FormatFloat(duration, 'f', 6, 64),
		"-c:v", "libx264", "-c:a", "aac",
	}

	out, stderrTail, err := p.runAndRegister(ctx, argv, outputExtension)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, stderrTail)
	}

	return out.Path, nil
}

// realizeInvocation dispatches on Kind to build and run the argv for one
// effect node, reusing the same dynamic argv builders the public
// gradient_wipe/crossfade_transition/opacity_transition operations use
// (internal/executor), since the underlying ffmpeg technique is identical.
func (p *Processor) realizeInvocation(ctx context.Context, inv effects.Invocation, clips []string, outputExtension string) (types.FileHandle, string, error) {
	switch inv.Kind {
	case types.EffectPassthrough:
		return p.copyClip(ctx, clips[0], outputExtension)

	case types.EffectGradientWipe, types.EffectCrossfadeTransition:
		if len(clips) < 2 {
			return types.FileHandle{}, "", fmt.Errorf("%w: effect node %q needs two inputs", fault.ErrValidation, inv.NodeID)
		}

		duration, offset := parseTransitionTiming(inv.Parameters)

		primaryInfo, err := p.probes.Probe(ctx, clips[0])
		if err != nil {
			return types.FileHandle{}, "", err
		}

		xfade := "wipeleft"
		if inv.Kind == types.EffectCrossfadeTransition {
			xfade = "fade"
		}

		out, err := p.reg.AllocateOutput(outputExtension, types.ClassTemp)
		if err != nil {
			return types.FileHandle{}, "", err
		}

		argv, err := executor.BuildTransitionArgv(xfade, primaryInfo, clips[0], clips[1], out.Path, duration, offset)
		if err != nil {
			_ = p.reg.Forget(out.ID)

			return types.FileHandle{}, "", err
		}

		stderrTail, runErr := p.run(ctx, argv, out)
		if runErr != nil {
			return types.FileHandle{}, stderrTail, runErr
		}

		return out, stderrTail, nil

	case types.EffectOpacityTransition:
		start, end, duration := parseOpacityTiming(inv.Parameters)

		out, err := p.reg.AllocateOutput(outputExtension, types.ClassTemp)
		if err != nil {
			return types.FileHandle{}, "", err
		}

		argv := executor.BuildOpacityArgv(start, end, duration, clips[0], out.Path)

		stderrTail, runErr := p.run(ctx, argv, out)
		if runErr != nil {
			return types.FileHandle{}, stderrTail, runErr
		}

		return out, stderrTail, nil

	case types.EffectColorGrade:
		return p.colorGrade(ctx, clips[0], inv.Parameters, outputExtension)

	default:
		return types.FileHandle{}, "", fmt.Errorf("%w: effect node %q has unsupported kind %q", fault.ErrValidation, inv.NodeID, inv.Kind)
	}
}

func (p *Processor) copyClip(ctx context.Context, clipPath, outputExtension string) (types.FileHandle, string, error) {
	argv := []string{"-i", clipPath, "-c", "copy"}

	return p.runAndRegister(ctx, argv, outputExtension)
}

func (p *Processor) colorGrade(ctx context.Context, clipPath string, params map[string]string, outputExtension string) (types.FileHandle, string, error) {
	brightness := paramOrDefault(params, "brightness", "0")
	contrast := paramOrDefault(params, "contrast", "1")
	saturation := paramOrDefault(params, "saturation", "1")

	eq := fmt.Sprintf("eq=brightness=%s:contrast=%s:saturation=%s", brightness, contrast, saturation)

	argv := []string{"-i", clipPath, "-vf", eq, "-c:a", "copy"}

	return p.runAndRegister(ctx, argv, outputExtension)
}

func paramOrDefault(params map[string]string, key, fallback string) string {
	if v, ok := params[key]; ok {
		return v
	}

	return fallback
}

func parseTransitionTiming(params map[string]string) (duration, offset float64) {
	duration, _ = strconv.ParseFloat(params["duration"], 64)
	offset, _ = strconv.ParseFloat(params["offset"], 64)

	return duration, offset
}

func parseOpacityTiming(params map[string]string) (start, end, duration float64) {
	start, _ = strconv.ParseFloat(params["opacity_start"], 64)
	end, _ = strconv.ParseFloat(params["opacity_end"], 64)
	duration, _ = strconv.ParseFloat(params["duration"], 64)

	return start, end, duration
}
