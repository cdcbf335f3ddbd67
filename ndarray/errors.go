// SPDX-License-Identifier: MIT
// Package ndarray: sentinel error set.
// All constructors and indexers return these sentinels (possibly wrapped with
// an operation tag); callers match them with errors.Is. No user-triggered
// condition panics.

package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape is empty or has a dimension <= 0.
	ErrBadShape = errors.New("ndarray: invalid shape")

	// ErrOutOfRange indicates an index outside the array bounds.
	ErrOutOfRange = errors.New("ndarray: index out of range")

	// ErrRankMismatch indicates the number of indices (or the axis) does not fit the array rank.
	ErrRankMismatch = errors.New("ndarray: rank mismatch")

	// ErrDataLength indicates that a backing slice does not match the product of the shape.
	ErrDataLength = errors.New("ndarray: data length does not match shape")

	// ErrNilArray indicates a nil *Array was used.
	ErrNilArray = errors.New("ndarray: nil array")
)

// arrayErrorf wraps err with the operation tag, keeping errors.Is intact.
func arrayErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
