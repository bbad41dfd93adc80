package tool

import (
	"context"

	"github.com/farcloser/komposer/internal/output"
	"github.com/farcloser/komposer/internal/types"
)

// ProcessFile implements process_file: runs one catalog operation against
// inputFileID and returns the resulting handle.
func (s *Service) ProcessFile(ctx context.Context, inputFileID, operation, outputExtension, params string) map[string]any {
	out, _, err := s.exec.Execute(ctx, operation, inputFileID, parseParams(params), outputExtension)
	if err != nil {
		return output.FailureErr(err)
	}

	return output.Success(map[string]any{
		"output_file_id": out.ID,
		"message":        "processed",
	})
}

// BatchOperation is one item of batch_process's operations array.
type BatchOperation struct {
	InputFileID     string `json:"input_file_id"`
	Operation       string `json:"operation"`
	OutputExtension string `json:"output_extension"`
	Params          string `json:"params"`
}

// BatchProcess implements batch_process: runs a sequence of operations,
// where a step's input_file_id may be "CHAIN" or a prior step's
// "RESULT_k" (spec.md section 6).
func (s *Service) BatchProcess(ctx context.Context, ops []BatchOperation) map[string]any {
	steps := make([]types.PlanStep, len(ops))
	for i, op := range ops {
		steps[i] = types.PlanStep{
			Operation:       op.Operation,
			InputFileID:     op.InputFileID,
			OutputExtension: op.OutputExtension,
			Params:          parseParams(op.Params),
		}
	}

	handles, err := s.exec.ExecuteBatch(ctx, steps)
	if err != nil {
		return output.FailureErr(err)
	}

	var finalOutput string
	if len(handles) > 0 {
		finalOutput = handles[len(handles)-1].ID
	}

	return output.Success(map[string]any{
		"final_output": finalOutput,
		"step_outputs": output.FileHandlesToMap(handles),
	})
}
