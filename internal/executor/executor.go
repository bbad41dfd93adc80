// Package executor implements the Operation Executor (spec.md section
// 4.C): it turns a catalog OperationSpec plus caller params into a
// validated ffmpeg invocation, running through the
// validated -> allocated -> running -> (succeeded|failed) states and
// cleaning up its own allocated output on either failure path.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/farcloser/komposer/internal/catalog"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/integration/ffmpeg"
	"github.com/farcloser/komposer/internal/probe"
	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/types"
)

// Executor runs whitelisted operations against registry-resolved inputs.
type Executor struct {
	reg     *registry.Registry
	probes  *probe.Cache
	timeout time.Duration
}

// New constructs an Executor. timeout bounds each individual ffmpeg
// invocation (spec.md default: 300 seconds).
func New(reg *registry.Registry, probes *probe.Cache, timeout time.Duration) *Executor {
	return &Executor{reg: reg, probes: probes, timeout: timeout}
}

// Execute runs one operation end to end and returns its output handle along
// with the tail of ffmpeg's stderr (present on both success and failure, for
// callers that want to surface diagnostics either way).
func (e *Executor) Execute(
	ctx context.Context,
	opName string,
	inputFileID string,
	params map[string]string,
	outputExtension string,
) (types.FileHandle, string, error) {
	op, ok := catalog.Lookup(opName)
	if !ok {
		return types.FileHandle{}, "", fmt.Errorf("%w: unknown operation %q", fault.ErrValidation, opName)
	}

	resolvedExt, err := resolveOutputExtension(op, outputExtension)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	values, filePaths, err := resolveParams(e.reg, op, params)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	primaryPath, err := e.reg.Resolve(inputFileID)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	slog.Debug("executor.Execute", "operation", opName, "stage", "validated")

	out, err := e.reg.AllocateOutput(resolvedExt, types.ClassTemp)
	if err != nil {
		return types.FileHandle{}, "", err
	}

	slog.Debug("executor.Execute", "operation", opName, "output", out.ID, "stage", "allocated")

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	argv, err := e.buildArgv(runCtx, op, values, filePaths, primaryPath, out.Path)
	if err != nil {
		_ = e.reg.Forget(out.ID)

		return types.FileHandle{}, "", err
	}

	slog.Debug("executor.Execute", "operation", opName, "argv", argv, "stage", "running")

	stderrTail, err := ffmpeg.Run(runCtx, argv)
	if err != nil {
		slog.Debug("executor.Execute", "operation", opName, "stage", "failed")

		if forgetErr := e.reg.Forget(out.ID); forgetErr != nil {
			slog.Warn("executor.Execute", "operation", opName, "cleanup_error", forgetErr)
		}

		return types.FileHandle{}, stderrTail, err
	}

	slog.Debug("executor.Execute", "operation", opName, "output", out.ID, "stage", "succeeded")

	return out, stderrTail, nil
}

// buildArgv dispatches to the dynamic builders for the four operations that
// cannot be expressed as a static template (concatenate_simple,
// gradient_wipe and crossfade_transition, which probe their input, and
// opacity_transition), falling back to the generic catalog-driven
// substitution for everything else.
func (e *Executor) buildArgv(
	ctx context.Context,
	op types.OperationSpec,
	values map[string]string,
	filePaths map[string]string,
	primaryPath, outputPath string,
) ([]string, error) {
	switch op.Name {
	case "concatenate_simple":
		secondPath := filePaths[op.SecondInputParam]

		primaryInfo, err := e.probes.Probe(ctx, primaryPath)
		if err != nil {
			return nil, err
		}

		secondInfo, err := e.probes.Probe(ctx, secondPath)
		if err != nil {
			return nil, err
		}

		return BuildConcatenateArgv(primaryInfo, secondInfo, primaryPath, secondPath, outputPath)

	case "gradient_wipe", "crossfade_transition":
		secondPath := filePaths[op.SecondInputParam]

		primaryInfo, err := e.probes.Probe(ctx, primaryPath)
		if err != nil {
			return nil, err
		}

		duration, _ := strconv.ParseFloat(values["duration"], 64)
		offset, _ := strconv.ParseFloat(values["offset"], 64)

		xfadeTransition := "wipeleft"
		if op.Name == "crossfade_transition" {
			xfadeTransition = "fade"
		}

		return BuildTransitionArgv(xfadeTransition, primaryInfo, primaryPath, secondPath, outputPath, duration, offset)

	case "opacity_transition":
		start, _ := strconv.ParseFloat(values["opacity_start"], 64)
		end, _ := strconv.ParseFloat(values["opacity_end"], 64)
		duration, _ := strconv.ParseFloat(values["duration"], 64)

		return BuildOpacityArgv(start, end, duration, primaryPath, outputPath), nil

	default:
		var secondPath string
		if op.SecondInputParam != "" {
			secondPath = filePaths[op.SecondInputParam]
		}

		return BuildArgv(op, values, primaryPath, secondPath, outputPath)
	}
}

// ExecuteBatch runs steps in order, resolving each step's "CHAIN" and
// "RESULT_k" references against the outputs of steps that have already run.
// A reference to a step at or after its own index is rejected before that
// step runs; the steps before it have already run and their outputs are
// returned.
func (e *Executor) ExecuteBatch(ctx context.Context, steps []types.PlanStep) ([]types.FileHandle, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty batch", fault.ErrValidation)
	}

	results := make([]types.FileHandle, len(steps))

	for i, step := range steps {
		inputID, err := resolveChainRef(step.InputFileID, i, results)
		if err != nil {
			return results[:i], err
		}

		params := make(map[string]string, len(step.Params))

		for k, v := range step.Params {
			resolved, err := resolveChainRef(v, i, results)
			if err != nil {
				return results[:i], err
			}

			params[k] = resolved
		}

		out, stderrTail, err := e.Execute(ctx, step.Operation, inputID, params, step.OutputExtension)
		if err != nil {
			return results[:i], fmt.Errorf("%w: step %d (%s): %s: %w", fault.ErrToolFailure, i, step.Operation, stderrTail, err)
		}

		results[i] = out
	}

	return results, nil
}

// ExecuteParallel runs independent (non-chained) steps concurrently, bounded
// by maxConcurrency. It rejects any step that references "CHAIN" or a
// "RESULT_k" step, since those require sequential ordering.
func (e *Executor) ExecuteParallel(ctx context.Context, steps []types.PlanStep, maxConcurrency int) ([]types.FileHandle, error) {
	for _, s := range steps {
		if s.InputFileID == "CHAIN" || strings.HasPrefix(s.InputFileID, "RESULT_") {
			return nil, fmt.Errorf("%w: ExecuteParallel requires independent steps, got reference %q", fault.ErrValidation, s.InputFileID)
		}

		for _, v := range s.Params {
			if v == "CHAIN" || strings.HasPrefix(v, "RESULT_") {
				return nil, fmt.Errorf("%w: ExecuteParallel requires independent steps, got reference %q", fault.ErrValidation, v)
			}
		}
	}

	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	results := make([]types.FileHandle, len(steps))
	errs := make([]error, len(steps))

	sem := make(chan struct{}, maxConcurrency)

	var wg sync.WaitGroup

	for i, step := range steps {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, step types.PlanStep) {
			defer wg.Done()
			defer func() { <-sem }()

			out, stderrTail, err := e.Execute(ctx, step.Operation, step.InputFileID, step.Params, step.OutputExtension)
			if err != nil {
				errs[i] = fmt.Errorf("%w: step %d (%s): %s: %w", fault.ErrToolFailure, i, step.Operation, stderrTail, err)

				return
			}

			results[i] = out
		}(i, step)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// resolveChainRef resolves "CHAIN" to the immediately preceding step's
// output id, "RESULT_k" (1-indexed, per spec.md section 4.C) to step k-1's
// output id, or returns raw unchanged for any other value (a literal
// handle id or scalar param value).
func resolveChainRef(raw string, stepIndex int, results []types.FileHandle) (string, error) {
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

	default:
		return raw, nil
	}
}
