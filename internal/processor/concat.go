package processor

import (
	"context"
	"fmt"

	"github.com/farcloser/komposer/internal/executor"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

// concatenateFinal realizes one concatenate_final step: join the running
// CHAIN video with the second_video param's referenced step output,
// normalizing orientation exactly as the public concatenate_simple
// operation does (internal/executor).
func (p *Processor) concatenateFinal(ctx context.Context, step types.PlanStep, stepIndex int, inputID string, results []types.FileHandle) (types.FileHandle, string, error) {
	primaryPath, err := p.reg.Resolve(inputID)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	secondRef, ok := step.Params["second_video"]
	if !ok {
		return types.FileHandle{}, "", fmt.Errorf("%w: concatenate_final missing second_video param", fault.ErrValidation)
	}

	secondID, err := resolveRef(secondRef, stepIndex, results, rejectSourceRef)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	secondPath, err := p.reg.Resolve(secondID)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	primaryInfo, err := p.probes.Probe(ctx, primaryPath)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	secondInfo, err := p.probes.Probe(ctx, secondPath)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	out, err := p.reg.AllocateOutput(step.OutputExtension, types.ClassTemp)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	argv, err := executor.BuildConcatenateArgv(primaryInfo, secondInfo, primaryPath, secondPath, out.Path)
	if err != nil {
		_ = p.reg.Forget(out.ID)

		return types.FileHandle{}, "", err
	}

	stderrTail, runErr := p.run(ctx, argv, out)
	if runErr != nil {
		return types.FileHandle{}, stderrTail, runErr
	}

	return out, stderrTail, nil
}
