// Package processor implements the Composition Processor (spec.md section
// 4.G): it executes a BuildPlan's steps in order, realizing each one with
// ffmpeg, retaining every intermediate output, and reporting a failing
// step's index, operation, and stderr tail.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/types"
)

// SourceResolver maps a Komposition source id to its registry-resolved
// path, so the Processor never needs to know how sources were registered.
type SourceResolver func(sourceRef string) (string, error)

// StepFailure reports which step of a Process call failed.
type StepFailure struct {
	Index      int
	Operation  string
	StderrTail string
	Err        error
}

func (f *StepFailure) Error() string {
	return fmt.Sprintf("step %d (%s): %s: %v", f.Index, f.Operation, f.StderrTail, f.Err)
}

func (f *StepFailure) Unwrap() error { return f.Err }

// Processor realizes BuildPlans.
type Processor struct {
	reg     *registry.Registry
	probes  *probe.Cache
	timeout time.Duration
}

// New constructs a Processor.
func New(reg *registry.Registry, probes *probe.Cache, timeout time.Duration) *Processor {
	return &Processor{reg: reg, probes: probes, timeout: timeout}
}

// Process runs every step of plan in order and returns the handle produced
// by each step, retained for inspection even when a later step fails.
func (p *Processor) Process(ctx context.Context, plan types.BuildPlan, resolveSource SourceResolver) ([]types.FileHandle, error) {
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("%w: build plan has no steps", fault.ErrValidation)
	}

	results := make([]types.FileHandle, len(plan.Steps))
	segmentWindows := make(map[string][2]float64, len(plan.SegmentPlan))

	for _, sp := range plan.SegmentPlan {
		segmentWindows[sp.SegmentID] = [2]float64{sp.ProjectedStart, sp.ProjectedEnd}
	}

	for i, step := range plan.Steps {
		inputID, err := resolveRef(step.InputFileID, i, results, resolveSource)
		if err != nil {
			return results[:i], &StepFailure{Index: i, Operation: step.Operation, Err: err}
		}

		runCtx, cancel := context.WithTimeout(ctx, p.timeout)

		out, stderrTail, err := p.runStep(runCtx, step, i, inputID, results, segmentWindows)

		cancel()

		if err != nil {
			slog.Debug("processor.Process", "step", i, "operation", step.Operation, "stage", "failed")

			return results[:i], &StepFailure{Index: i, Operation: step.Operation, StderrTail: stderrTail, Err: err}
		}

		slog.Debug("processor.Process", "step", i, "operation", step.Operation, "output", out.ID, "stage", "succeeded")

		results[i] = out
	}

	return results, nil
}

func (p *Processor) runStep(
	ctx context.Context,
	step types.PlanStep,
	stepIndex int,
	inputID string,
	results []types.FileHandle,
	segmentWindows map[string][2]float64,
) (types.FileHandle, string, error) {
	switch step.Operation {
	case "render_segment":
		// inputID is already a resolved source path (see resolveRef's
		// default branch).
		return p.renderSegment(ctx, step, inputID)
	case "concatenate_final":
		return p.concatenateFinal(ctx, step, stepIndex, inputID, results)
	case "mix_audio":
		return p.mixAudio(ctx, step, inputID)
	case "apply_effects":
		return p.applyEffects(ctx, step, inputID, segmentWindows)
	default:
		return types.FileHandle{}, "", fmt.Errorf("%w: processor does not recognize operation %q", fault.ErrValidation, step.Operation)
	}
}

// runAndRegister allocates a fresh output, appends its path to argv, runs
// it, and discards the allocation on failure — the same
// validated/allocated/running/(succeeded|failed) shape as
// internal/executor.Execute, reused here since the Processor's primitives
// aren't in the public catalog. argv must not itself end in an output path.
func (p *Processor) runAndRegister(ctx context.Context, argv []string, ext string) (types.FileHandle, string, error) {
	out, err := p.reg.AllocateOutput(ext, types.ClassTemp)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	argv = append(append([]string{}, argv...), "-y", out.Path)

	stderrTail, err := ffmpeg.Run(ctx, argv)
	if err != nil {
		if forgetErr := p.reg.Forget(out.ID); forgetErr != nil {
			slog.Warn("processor.runAndRegister", "cleanup_error", forgetErr)
		}

		return types.FileHandle{}, stderrTail, err
	}

	return out, stderrTail, nil
}

// run executes argv for an already-allocated output, discarding the
// allocation on failure.
func (p *Processor) run(ctx context.Context, argv []string, out types.FileHandle) (string, error) {
	stderrTail, err := ffmpeg.Run(ctx, argv)
	if err != nil {
		if forgetErr := p.reg.Forget(out.ID); forgetErr != nil {
			slog.Warn("processor.run", "cleanup_error", forgetErr)
		}

		return stderrTail, err
	}

	return stderrTail, nil
}

// rejectSourceRef is passed as the SourceResolver where a ref is expected to
// always be a "RESULT_k"/"CHAIN" reference, never a bare source id.
func rejectSourceRef(ref string) (string, error) {
	return "", fmt.Errorf("%w: expected a RESULT_k or CHAIN reference, got %q", fault.ErrValidation, ref)
}

// resolveRef resolves "CHAIN"/"RESULT_k" (1-indexed, as in
// internal/executor) against prior step outputs, a bare
// source id via resolveSource, or returns raw unchanged (a literal handle
// id).
func resolveRef(raw string, stepIndex int, results []types.FileHandle, resolveSource SourceResolver) (string, error) {
	switch {
	case raw == "CHAIN":
		if stepIndex == 0 {
			return "", fmt.Errorf("%w: step 0 cannot reference CHAIN", fault.ErrValidation)
		}

		return results[stepIndex-1].ID, nil

	case strings.HasPrefix(raw, "RESULT_"):
		k, err := strconv.Atoi(strings.TrimPrefix(raw, "RESULT_"))
		if err != nil {
			return "", fmt.Errorf("%w: malformed reference %q", fault.ErrValidation, raw)
		}

		if k < 1 || k-1 >= stepIndex {
			return "", fmt.Errorf("%w: step %d references RESULT_%d, which has not executed yet", fault.ErrValidation, stepIndex, k)
		}

		return results[k-1].ID, nil

	case strings.HasPrefix(raw, "file_"):
		return raw, nil

	default:
		// A bare source id, as planner.Plan emits for render_segment steps.
		path, err := resolveSource(raw)
		if err != nil {
			return "", err
		}

		return path, nil
	}
}

// jsonParam decodes a step's JSON-encoded param (manifest_json,
// effects_json) into dst.
func jsonParam(step types.PlanStep, key string, dst any) error {
	raw, ok := step.Params[key]
	if !ok {
		return fmt.Errorf("%w: step %q missing %q param", fault.ErrValidation, step.Operation, key)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: decoding %q: %w", fault.ErrInvalidJSON, key, err)
	}

	return nil
}
