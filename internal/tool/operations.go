package tool

import (
	"github.com/farcloser/komposer/internal/catalog"
	"github.com/farcloser/komposer/internal/output"
)

// GetAvailableOperations implements get_available_operations: the full
// Operation Catalog, described well enough for a caller to construct a
// valid process_file/batch_process params string without consulting any
// documentation outside the tool response itself.
func (s *Service) GetAvailableOperations() map[string]any {
	all := catalog.All()
	ops := make([]any, 0, len(all))

	for _, op := range all {
		params := make([]any, 0, len(op.Params))

		for _, p := range op.Params {
			param := map[string]any{
				"name":     p.Name,
				"type":     p.Type.String(),
				"required": p.Required,
			}

			if len(p.Enum) > 0 {
				param["enum"] = p.Enum
			}

			if p.Default != "" {
				param["default"] = p.Default
			}

			params = append(params, param)
		}

		ops = append(ops, map[string]any{
			"name":               op.Name,
			"description":        op.Description,
			"params":             params,
			"allowed_extensions": op.AllowedExtensions,
		})
	}

	return output.Success(map[string]any{"operations": ops})
}
