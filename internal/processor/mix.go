package processor

import (
	"context"
	"fmt"

	"github.com/farcloser/komposer/internal/types"
)

// mixAudio realizes the mix_audio step: applies the AudioTimingManifest's
// background envelope (volume, fade in/out) to the running CHAIN's own
// audio track. Mixing in a separately supplied background bed is a
// caller-side extension (an additional source wired into a future
// PlanStep param), not exercised by the planner's current output.
func (p *Processor) mixAudio(ctx context.Context, step types.PlanStep, inputID string) (types.FileHandle, string, error) {
	primaryPath, err := p.reg.Resolve(inputID)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	var manifest types.AudioTimingManifest
	if err := jsonParam(step, "manifest_json", &manifest); err != nil {
		return types.FileHandle{}, "", err
	}

	info, err := p.probes.Probe(ctx, primaryPath)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	argv := buildMixArgv(manifest, primaryPath, info.Duration)

	out, err := p.reg.AllocateOutput(step.OutputExtension, types.ClassTemp)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	argv = append(argv, "-y", out.Path)

	stderrTail, runErr := p.run(ctx, argv, out)
	if runErr != nil {
		return types.FileHandle{}, stderrTail, runErr
	}

	return out, stderrTail, nil
}

func buildMixArgv(manifest types.AudioTimingManifest, primaryPath string, duration float64) []string {
	bg := manifest.Background

	af := fmt.Sprintf("volume=%.3f", bg.Volume)
	if bg.FadeIn > 0 {
		af += fmt.Sprintf(",afade=t=in:st=%.3f:d=%.3f", bg.StartOffset, bg.FadeIn)
	}

	if bg.FadeOut > 0 {
		af += fmt.Sprintf(",afade=t=out:st=%.3f:d=%.3f", max(bg.StartOffset, duration-bg.FadeOut), bg.FadeOut)
	}

	return []string{
		"-i", primaryPath,
		"-af", af,
		"-c:v", "copy",
	}
}
