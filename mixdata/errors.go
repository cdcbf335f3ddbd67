// SPDX-License-Identifier: MIT

package mixdata

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData indicates a required matrix or array is nil.
	ErrMissingData = errors.New("mixdata: required data missing")

	// ErrShape indicates a dimension disagrees with the declared counts.
	ErrShape = errors.New("mixdata: shape mismatch")

	// ErrFactor indicates an invalid categorical factor definition.
	ErrFactor = errors.New("mixdata: invalid factor")

	// ErrDataType indicates an unknown source data type.
	ErrDataType = errors.New("mixdata: unknown source data type")
)

// dataErrorf wraps err with the validation tag.
func dataErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
