// SPDX-License-Identifier: MIT

package ndarray

import (
	"fmt"
	"math"
	"strings"
)

// Operation name constants for unified error wrapping.
const (
	opNew       = "New"
	opFromSlice = "FromSlice"
	opAt        = "Array.At"
	opSet       = "Array.Set"
	opSlice     = "Array.Slice"
	opApply     = "Array.Apply"
)

// Array is a row-major N-dimensional array of float64 values.
// shape holds the extent of each axis, strides the row-major step per axis,
// and data the len = Π shape elements.
type Array struct {
	shape   []int     // extent per axis, all > 0
	strides []int     // row-major strides, strides[rank-1] == 1
	data    []float64 // flat backing storage
}

// NA returns the "not available" marker used for missing entries.
func NA() float64 { return math.NaN() }

// IsNA reports whether v is the NA marker.
func IsNA(v float64) bool { return math.IsNaN(v) }

// New creates a zero-filled array with the given shape.
// Stage 1 (Validate): rank >= 1 and every extent > 0.
// Stage 2 (Prepare): compute strides and allocate the flat slice.
// Complexity: O(Π shape) time and memory.
func New(shape ...int) (*Array, error) {
	strides, n, err := layout(shape)
	if err != nil {
		return nil, arrayErrorf(opNew, err)
	}

	return &Array{
		shape:   append([]int(nil), shape...),
		strides: strides,
		data:    make([]float64, n),
	}, nil
}

// NewNA creates an array of the given shape with every entry set to NA.
// Used for scratch arrays that the sampler fills in.
func NewNA(shape ...int) (*Array, error) {
	a, err := New(shape...)
	if err != nil {
		return nil, err
	}
	a.Fill(NA())

	return a, nil
}

// FromSlice wraps a copy of data (row-major) with the given shape.
// Returns ErrDataLength when len(data) != Π shape.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	strides, n, err := layout(shape)
	if err != nil {
		return nil, arrayErrorf(opFromSlice, err)
	}
	if len(data) != n {
		return nil, arrayErrorf(opFromSlice, ErrDataLength)
	}

	return &Array{
		shape:   append([]int(nil), shape...),
		strides: strides,
		data:    append([]float64(nil), data...),
	}, nil
}

// layout validates shape and returns row-major strides and total length.
func layout(shape []int) ([]int, int, error) {
	if len(shape) == 0 {
		return nil, 0, ErrBadShape
	}
	strides := make([]int, len(shape))
	n := 1
	for axis := len(shape) - 1; axis >= 0; axis-- {
		if shape[axis] <= 0 {
			return nil, 0, ErrBadShape
		}
		strides[axis] = n
		n *= shape[axis]
	}

	return strides, n, nil
}

// Shape returns a copy of the extents.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// Rank returns the number of axes.
func (a *Array) Rank() int { return len(a.shape) }

// Dim returns the extent of one axis, or 0 when axis is out of range.
func (a *Array) Dim(axis int) int {
	if axis < 0 || axis >= len(a.shape) {
		return 0
	}

	return a.shape[axis]
}

// Len returns the total number of elements.
func (a *Array) Len() int { return len(a.data) }

// offset computes the flat index for idx.
// Complexity: O(rank).
func (a *Array) offset(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, ErrRankMismatch
	}
	off := 0
	for axis, i := range idx {
		if i < 0 || i >= a.shape[axis] {
			return 0, ErrOutOfRange
		}
		off += i * a.strides[axis]
	}

	return off, nil
}

// At returns the element at idx (0-based, one index per axis).
func (a *Array) At(idx ...int) (float64, error) {
	off, err := a.offset(idx)
	if err != nil {
		return 0, arrayErrorf(opAt, fmt.Errorf("%v: %w", idx, err))
	}

	return a.data[off], nil
}

// Set assigns v at idx.
func (a *Array) Set(v float64, idx ...int) error {
	off, err := a.offset(idx)
	if err != nil {
		return arrayErrorf(opSet, fmt.Errorf("%v: %w", idx, err))
	}
	a.data[off] = v

	return nil
}

// Fill assigns v to every element.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Clone returns a deep copy.
// Complexity: O(len).
func (a *Array) Clone() *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
}

// Data returns a copy of the row-major backing slice.
func (a *Array) Data() []float64 { return append([]float64(nil), a.data...) }

// hyperslab visits every flat offset whose index along axis equals index,
// in row-major order.
func (a *Array) hyperslab(axis, index int, visit func(off int)) error {
	if axis < 0 || axis >= len(a.shape) {
		return ErrRankMismatch
	}
	if index < 0 || index >= a.shape[axis] {
		return ErrOutOfRange
	}
	// outer: product of extents before axis; inner: stride of axis.
	outer := len(a.data) / (a.shape[axis] * a.strides[axis])
	inner := a.strides[axis]
	block := a.shape[axis] * inner
	var o, k int
	for o = 0; o < outer; o++ {
		base := o*block + index*inner
		for k = 0; k < inner; k++ {
			visit(base + k)
		}
	}

	return nil
}

// Slice returns the values whose index along axis equals index (row-major order).
// For a [source, tracer, replicate] cube, Slice(1, j) yields every replicate of tracer j.
// Complexity: O(len / shape[axis]).
func (a *Array) Slice(axis, index int) ([]float64, error) {
	out := make([]float64, 0, len(a.data)/max(1, a.Dim(axis)))
	err := a.hyperslab(axis, index, func(off int) { out = append(out, a.data[off]) })
	if err != nil {
		return nil, arrayErrorf(opSlice, err)
	}

	return out, nil
}

// Apply replaces every value whose index along axis equals index with fn(value).
// The array is modified in place; callers wanting purity Clone first.
func (a *Array) Apply(axis, index int, fn func(float64) float64) error {
	err := a.hyperslab(axis, index, func(off int) { a.data[off] = fn(a.data[off]) })
	if err != nil {
		return arrayErrorf(opApply, err)
	}

	return nil
}

// ColumnMajor returns the elements in first-index-fastest order, the layout
// R and JAGS use for arrays.
// Complexity: O(len).
func (a *Array) ColumnMajor() []float64 {
	out := make([]float64, len(a.data))
	idx := make([]int, len(a.shape))
	var pos, axis int
	for pos = 0; pos < len(out); pos++ {
		off := 0
		for axis = range idx {
			off += idx[axis] * a.strides[axis]
		}
		out[pos] = a.data[off]
		// advance idx with the first axis fastest
		for axis = 0; axis < len(idx); axis++ {
			idx[axis]++
			if idx[axis] < a.shape[axis] {
				break
			}
			idx[axis] = 0
		}
	}

	return out
}

// String implements fmt.Stringer for debugging.
func (a *Array) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ndarray%v[", a.shape)
	for i, v := range a.data {
		if i > 0 {
			sb.WriteString(" ")
		}
		if IsNA(v) {
			sb.WriteString("NA")
			continue
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteString("]")

	return sb.String()
}
