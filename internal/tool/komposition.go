package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/komposer"
	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/output"
	"github.com/farcloser/komposer/internal/types"
)

// ProcessKompositionFile implements process_komposition_file: parses the
// komposition document at path, plans it, and realizes the plan end to
// end.
func (s *Service) ProcessKompositionFile(ctx context.Context, path string) map[string]any {
	k, err := s.readKomposition(path)
	if err != nil {
		return output.FailureErr(err)
	}

	plan, handles, err := s.planAndProcess(ctx, k)
	if err != nil {
		return output.FailureErr(err)
	}

	return output.Success(map[string]any{
		"final_handle": finalHandleID(plan, handles),
		"manifest":     output.AudioTimingManifestToMap(plan.Manifest),
	})
}

// ProcessTransitionEffectsKomposition implements
// process_transition_effects_komposition: identical to
// process_komposition_file except it requires an effects tree and reports
// only the final handle.
func (s *Service) ProcessTransitionEffectsKomposition(ctx context.Context, path string) map[string]any {
	k, err := s.readKomposition(path)
	if err != nil {
		return output.FailureErr(err)
	}

	if k.EffectsTree == nil {
		return output.FailureErr(fmt.Errorf("%w: komposition has no effects_tree", fault.ErrValidation))
	}

	plan, handles, err := s.planAndProcess(ctx, k)
	if err != nil {
		return output.FailureErr(err)
	}

	return output.Success(map[string]any{"final_handle": finalHandleID(plan, handles)})
}

// ProcessCompositionPlan implements process_composition_plan: executes a
// caller-supplied BuildPlan's steps through the Executor's batch path
// rather than the Engine/SourceResolver path. Every step must therefore
// name a public catalog operation; the Processor-only operations
// planner.Plan emits (render_segment, concatenate_final, mix_audio,
// apply_effects) are rejected as unknown operations.
func (s *Service) ProcessCompositionPlan(ctx context.Context, plan types.BuildPlan) map[string]any {
	handles, err := s.exec.ExecuteBatch(ctx, plan.Steps)
	if err != nil {
		return output.FailureErr(err)
	}

	return output.Success(map[string]any{
		"final_output": finalHandleID(plan, handles),
		"step_outputs": output.FileHandlesToMap(handles),
	})
}

func (s *Service) readKomposition(path string) (types.Komposition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Komposition{}, fmt.Errorf("%w: reading komposition file: %w", fault.ErrReadFailure, err)
	}

	var k types.Komposition
	if err := json.Unmarshal(data, &k); err != nil {
		return types.Komposition{}, fmt.Errorf("%w: decoding komposition file: %w", fault.ErrInvalidJSON, err)
	}

	return k, nil
}

func (s *Service) planAndProcess(ctx context.Context, k types.Komposition) (types.BuildPlan, []types.FileHandle, error) {
	plan, err := komposer.Plan(k, s.opts)
	if err != nil {
		return types.BuildPlan{}, nil, err
	}

	handles, err := s.engine.Process(ctx, plan, s.resolveSource(k))
	if err != nil {
		return plan, handles, err
	}

	return plan, handles, nil
}

// resolveSource builds a processor.SourceResolver closed over k, mapping a
// Komposition source id to its path under one of the configured source
// roots.
func (s *Service) resolveSource(k types.Komposition) komposer.SourceResolver {
	return func(sourceID string) (string, error) {
		src, ok := k.SourceByID(sourceID)
		if !ok {
			return "", fmt.Errorf("%w: unknown source id %q", fault.ErrValidation, sourceID)
		}

		basename := strings.TrimPrefix(src.URL, "file://")

		for _, root := range s.sourceRoots {
			candidate := filepath.Join(root, basename)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		return "", fmt.Errorf("%w: source %q (%s) not found under any source root", fault.ErrNotFound, sourceID, basename)
	}
}

// finalHandleID returns the handle id produced by plan's terminal step, or
// the last handle if FinalStep is out of range (a partially-executed plan
// after a failure earlier in the Process/ExecuteBatch call).
func finalHandleID(plan types.BuildPlan, handles []types.FileHandle) string {
	if plan.FinalStep >= 0 && plan.FinalStep < len(handles) {
		return handles[plan.FinalStep].ID
	}

	if len(handles) > 0 {
		return handles[len(handles)-1].ID
	}

	return ""
}
