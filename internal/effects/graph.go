package effects

import (
	"fmt"

	"github.com/farcloser/komposer/internal/fault"
	"github.com/farcloser/komposer/internal/types"
)

type color int

const (
	white color = iota // unvisited
	gray               // on the current DFS stack
	black              // fully resolved
)

// topologicalOrder returns doc's node ids ordered so every node appears
// after every other node it references via AppliesTo (a dependency must be
// evaluated before its dependent). It returns fault.ErrValidation if the
// document's RootID is unknown or AppliesTo forms a cycle among node ids
// (entries that aren't node ids are segment references, which are leaves
// outside the graph).
func topologicalOrder(doc *types.EffectDocument) ([]string, error) {
	if _, ok := doc.Nodes[doc.RootID]; !ok {
		return nil, fmt.Errorf("%w: effects document root %q is not a node in the document", fault.ErrValidation, doc.RootID)
	}

	colors := make(map[string]color, len(doc.Nodes))
	order := make([]string, 0, len(doc.Nodes))

	var visit func(id string, path []string) error

	visit = func(id string, path []string) error {
		switch colors[id] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("%w: effects document has a cycle: %v -> %s", fault.ErrValidation, path, id)
		}

		colors[id] = gray

		node := doc.Nodes[id]
		for _, ref := range node.AppliesTo {
			if _, isNode := doc.Nodes[ref]; !isNode {
				continue // a segment id, not a dependency edge
			}

			if err := visit(ref, append(path, id)); err != nil {
				return err
			}
		}

		colors[id] = black
		order = append(order, id)

		return nil
	}

	if err := visit(doc.RootID, nil); err != nil {
		return nil, err
	}

	return order, nil
}

// ValidateAcyclic checks every node in doc for a cycle, including ones not
// reachable from RootID, so a malformed document is rejected at ingestion
// rather than silently evaluating only part of itself.
func ValidateAcyclic(doc *types.EffectDocument) error {
	colors := make(map[string]color, len(doc.Nodes))

	var visit func(id string, path []string) error

	visit = func(id string, path []string) error {
		switch colors[id] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("%w: effects document has a cycle: %v -> %s", fault.ErrValidation, path, id)
		}

		colors[id] = gray

		node, ok := doc.Nodes[id]
		if !ok {
			return fmt.Errorf("%w: effects document references unknown node %q", fault.ErrValidation, id)
		}

		for _, ref := range node.AppliesTo {
			if _, isNode := doc.Nodes[ref]; !isNode {
				continue
			}

			if err := visit(ref, append(path, id)); err != nil {
				return err
			}
		}

		colors[id] = black

		return nil
	}

	for id := range doc.Nodes {
		if err := visit(id, nil); err != nil {
			return err
		}
	}

	return nil
}
