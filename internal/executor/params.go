package executor

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/registry"
	"github.com/farcloser/komposer/internal/types"
)

// resolveParams validates raw against op's declared Params, applying
// defaults and type checks, and resolves any ParamFileHandle entries to
// sandboxed paths. values holds every param's argv-ready string form;
// filePaths holds the resolved path for file-handle params, keyed by
// param name.
func resolveParams(
	reg *registry.Registry,
	op types.OperationSpec,
	raw map[string]string,
) (values map[string]string, filePaths map[string]string, err error) {
	values = make(map[string]string, len(op.Params))
	filePaths = make(map[string]string)

	for _, p := range op.Params {
		rawValue, present := raw[p.Name]

		if !present {
			if p.Required {
				return nil, nil, fmt.Errorf("%w: missing required param %q", fault.ErrValidation, p.Name)
			}

			if p.Default == "" {
				continue
			}

			rawValue = p.Default
		}

		switch p.Type {
		case types.ParamDuration, types.ParamFloat:
			if _, err := strconv.ParseFloat(rawValue, 64); err != nil {
				return nil, nil, fmt.Errorf("%w: param %q must be numeric seconds: %w", fault.ErrValidation, p.Name, err)
			}

			values[p.Name] = rawValue
		case types.ParamInteger:
			if _, err := strconv.Atoi(rawValue); err != nil {
				return nil, nil, fmt.Errorf("%w: param %q must be an integer: %w", fault.ErrValidation, p.Name, err)
			}

			values[p.Name] = rawValue
		case types.ParamEnum:
			if !slices.Contains(p.Enum, rawValue) {
				return nil, nil, fmt.Errorf("%w: param %q must be one of %v, got %q", fault.ErrValidation, p.Name, p.Enum, rawValue)
			}

			values[p.Name] = rawValue
		case types.ParamFileHandle:
			path, err := reg.Resolve(rawValue)
			if err != nil {
				return nil, nil, err
			}

			filePaths[p.Name] = path
			values[p.Name] = rawValue
		default: // types.ParamString
			values[p.Name] = rawValue
		}
	}

	return values, filePaths, nil
}

// resolveOutputExtension applies op's ExtensionPolicy to a caller-requested
// extension.
func resolveOutputExtension(op types.OperationSpec, requested string) (string, error) {
	if op.ExtensionPolicy == types.ExtensionFixed {
		return op.FixedExtension, nil
	}

	requested = normalizeExtension(requested)

	if !slices.Contains(op.AllowedExtensions, requested) {
		return "", fmt.Errorf(
			"%w: operation %q does not allow output extension %q",
			fault.ErrValidation, op.Name, requested,
		)
	}

	return requested, nil
}
