// SPDX-License-Identifier: MIT

package prior

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Alpha is a prior as written in a config file: a single number or a
// sequence of numbers. The zero Alpha stands for the default prior.
type Alpha []float64

// Values returns the prior as passed to Resolve; empty means Default.
func (a Alpha) Values() []float64 {
	if len(a) == 0 {
		return []float64{Default}
	}

	return []float64(a)
}

// UnmarshalYAML accepts `alpha: 1` or `alpha: [1, 2.5, 0.5]`.
// Strings, mappings and non-numeric elements yield ErrInvalidPrior.
func (a *Alpha) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if node.ShortTag() != "!!int" && node.ShortTag() != "!!float" {
			return fmt.Errorf("line %d: %q: %w", node.Line, node.Value, ErrInvalidPrior)
		}
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %v: %w", node.Line, err, ErrInvalidPrior)
		}
		*a = Alpha{v}
	case yaml.SequenceNode:
		out := make(Alpha, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || (item.ShortTag() != "!!int" && item.ShortTag() != "!!float") {
				return fmt.Errorf("line %d: element %q: %w", item.Line, item.Value, ErrInvalidPrior)
			}
			var v float64
			if err := item.Decode(&v); err != nil {
				return fmt.Errorf("line %d: %v: %w", item.Line, err, ErrInvalidPrior)
			}
			out = append(out, v)
		}
		*a = out
	default:
		return fmt.Errorf("line %d: prior must be a number or a list of numbers: %w", node.Line, ErrInvalidPrior)
	}

	return nil
}
