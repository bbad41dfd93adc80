package processor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/types"
)

// renderSegment realizes one render_segment step: cut [source_start,
// source_end) out of sourcePath and, for time_stretch/hybrid strategies,
// retime it to its slot duration via setpts/atempo.
func (p *Processor) renderSegment(ctx context.Context, step types.PlanStep, sourcePath string) (types.FileHandle, string, error) {
	out, err := p.reg.AllocateOutput(step.OutputExtension, types.ClassTemp)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	argv, err := buildRenderArgv(step.Params, sourcePath, out.Path)
	if err != nil {
		_ = p.reg.Forget(out.ID)

		return types.FileHandle{}, "", err
	}

	stderrTail, runErr := ffmpeg.Run(ctx, argv)
	if runErr != nil {
		_ = p.reg.Forget(out.ID)

		return types.FileHandle{}, stderrTail, runErr
	}

	return out, stderrTail, nil
}

func buildRenderArgv(params map[string]string, sourcePath, outputPath string) ([]string, error) {
	start, _ := strconv.ParseFloat(params["source_start"], 64)
	end, _ := strconv.ParseFloat(params["source_end"], 64)
	duration := end - start

	argv := []string{"-ss", strconv.FormatFloat(start, 'f', 6, 64), "-i", sourcePath}
	if duration > 0 {
		argv = append(argv, "-t", strconv.FormatFloat(duration, 'f', 6, 64))
	}

	switch params["strategy_kind"] {
	case "time_stretch":
		if factor, err := strconv.ParseFloat(params["stretch_factor"], 64); err == nil && factor != 1 {
			argv = append(argv, "-vf", fmt.Sprintf("setpts=%.6f*PTS", factor), "-af", atempoChain(1/factor))
		}
	case "hybrid":
		if factor, err := strconv.ParseFloat(params["residual_stretch_factor"], 64); err == nil && factor != 1 {
			argv = append(argv, "-vf", fmt.Sprintf("setpts=%.6f*PTS", factor), "-af", atempoChain(1/factor))
		}
	}

	argv = append(argv, "-c:v", "libx264", "-c:a", "aac", "-y", outputPath)

	return argv, nil
}

// atempoChain expresses an arbitrary tempo factor as a chain of ffmpeg
// atempo filters, each of which only accepts [0.5, 2.0].
func atempoChain(factor float64) string {
	if factor <= 0 {
		factor = 1
	}

	var parts []string

	for factor > 2.0 {
		parts = append(parts, "atempo=2.0")
		factor /= 2.0
	}

	for factor < 0.5 {
		parts = append(parts, "atempo=0.5")
		factor /= 0.5
	}

	parts = append(parts, fmt.Sprintf("atempo=%.6f", factor))

	return strings.Join(parts, ",")
}
