// Package effects implements the Effects Tree Evaluator (spec.md section
// 4.H): it turns an acyclic EffectDocument into an ordered list of
// Invocations the Composition Processor can realize, converting every
// beat-denominated parameter to seconds exactly once on the way through.
package effects

import (
	"fmt"
	"strconv"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

// Invocation is one resolved effect application: apply Kind to Inputs (in
// AppliesTo order, each either a segment id or another node's id) using
// Parameters, all timing already expressed in seconds.
type Invocation struct {
	NodeID     string
	Kind       types.EffectKind
	Inputs     []string
	Parameters map[string]string
}

// Plan validates doc and returns its nodes as an ordered sequence of
// Invocations, dependencies before dependents (post-order).
func Plan(doc *types.EffectDocument, bpm float64) ([]Invocation, error) {
	if err := ValidateAcyclic(doc); err != nil {
		return nil, err
	}

	order, err := topologicalOrder(doc)
	if err != nil {
		return nil, err
	}

	invocations := make([]Invocation, 0, len(order))

	for _, id := range order {
		node := doc.Nodes[id]

		params, err := convertBeatParams(node.Parameters, bpm)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %w", fault.ErrValidation, id, err)
		}

		invocations = append(invocations, Invocation{
			NodeID:     id,
			Kind:       node.Kind,
			Inputs:     append([]string{}, node.AppliesTo...),
			Parameters: params,
		})
	}

	return invocations, nil
}

// beatParamSuffix marks a Parameters key as beat-denominated; "offset_beats"
// becomes "offset" in seconds, "duration_beats" becomes "duration", and so
// on. Converting here, once, keeps the Processor's xfade/fade argv builders
// unit-agnostic (they only ever see seconds).
const beatParamSuffix = "_beats"

func convertBeatParams(raw map[string]string, bpm float64) (map[string]string, error) {
	out := make(map[string]string, len(raw))

	for k, v := range raw {
		if len(k) <= len(beatParamSuffix) || k[len(k)-len(beatParamSuffix):] != beatParamSuffix {
			out[k] = v

			continue
		}

		beats, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("param %q is not numeric: %w", k, err)
		}

		seconds := beats * 60 / bpm
		secondsKey := k[:len(k)-len(beatParamSuffix)]
		out[secondsKey] = strconv.FormatFloat(seconds, 'f', -1, 64)
	}

	return out, nil
}
