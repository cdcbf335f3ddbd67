// SPDX-License-Identifier: MIT

package runconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts a scalar preset name or a Run mapping.
// Any other node kind yields ErrConfig. The decoded Setting is not
// validated here; call Run to resolve it.
func (s *Setting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return fmt.Errorf("line %d: %v: %w", node.Line, err, ErrConfig)
		}
		*s = FromPreset(name)
	case yaml.MappingNode:
		var r Run
		if err := node.Decode(&r); err != nil {
			return fmt.Errorf("line %d: %v: %w", node.Line, err, ErrConfig)
		}
		*s = FromRun(r)
	default:
		return fmt.Errorf("line %d: run setting must be a preset name or a mapping: %w", node.Line, ErrConfig)
	}

	return nil
}

// MarshalYAML emits the preset name or the record mapping.
func (s Setting) MarshalYAML() (interface{}, error) {
	if s.record != nil {
		return *s.record, nil
	}

	return s.preset, nil
}
