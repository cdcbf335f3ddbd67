// SPDX-License-Identifier: MIT

package bundle

import (
	"fmt"

	"github.com/katalvlaran/isomix/ndarray"
	"gonum.org/v1/gonum/mat"
)

// Kind tags the shape class of a Value.
type Kind uint8

const (
	// Scalar is a single number.
	Scalar Kind = iota + 1
	// Vector is a rank-1 array.
	Vector
	// Matrix is a rank-2 array.
	Matrix
	// Array is a rank-3 or higher array.
	Array
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	case Array:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is an immutable tagged numeric value. The zero Value is invalid.
// Storage is always an ndarray; scalars use shape [1].
type Value struct {
	kind Kind
	data *ndarray.Array
}

// ScalarOf wraps a number.
func ScalarOf(v float64) Value {
	a, _ := ndarray.FromSlice([]float64{v}, 1) // shape [1] is always valid

	return Value{kind: Scalar, data: a}
}

// IntOf wraps an integer count or index.
func IntOf(n int) Value { return ScalarOf(float64(n)) }

// VectorOf copies xs into a Vector. Empty input yields an error.
func VectorOf(xs []float64) (Value, error) {
	a, err := ndarray.FromSlice(xs, len(xs))
	if err != nil {
		return Value{}, fmt.Errorf("VectorOf: %w", err)
	}

	return Value{kind: Vector, data: a}, nil
}

// IntsOf copies integer level assignments into a Vector.
func IntsOf(xs []int) (Value, error) {
	f := make([]float64, len(xs))
	for i, x := range xs {
		f[i] = float64(x)
	}

	return VectorOf(f)
}

// MatrixOf copies m into a Matrix value.
func MatrixOf(m mat.Matrix) (Value, error) {
	r, c := m.Dims()
	a, err := ndarray.New(r, c)
	if err != nil {
		return Value{}, fmt.Errorf("MatrixOf: %w", err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			_ = a.Set(m.At(i, j), i, j) // indices are in range by construction
		}
	}

	return Value{kind: Matrix, data: a}, nil
}

// ArrayOf clones a into a Value whose Kind follows the array rank.
func ArrayOf(a *ndarray.Array) (Value, error) {
	if a == nil {
		return Value{}, fmt.Errorf("ArrayOf: %w", ndarray.ErrNilArray)
	}
	k := Array
	switch a.Rank() {
	case 1:
		k = Vector
	case 2:
		k = Matrix
	}

	return Value{kind: k, data: a.Clone()}, nil
}

// Kind returns the shape class.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v was built by a constructor.
func (v Value) Valid() bool { return v.data != nil }

// Shape returns the extents; scalars report [1].
func (v Value) Shape() []int {
	if v.data == nil {
		return nil
	}

	return v.data.Shape()
}

// Len returns the element count.
func (v Value) Len() int {
	if v.data == nil {
		return 0
	}

	return v.data.Len()
}

// Float returns the scalar value; ok is false for non-scalars.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != Scalar {
		return 0, false
	}
	f, _ = v.data.At(0)

	return f, true
}

// Data returns a copy of the elements in row-major order.
func (v Value) Data() []float64 {
	if v.data == nil {
		return nil
	}

	return v.data.Data()
}

// Array returns a copy of the underlying array.
func (v Value) Array() *ndarray.Array {
	if v.data == nil {
		return nil
	}

	return v.data.Clone()
}

// Dense returns a copy of a Matrix value as *mat.Dense; ok is false otherwise.
func (v Value) Dense() (*mat.Dense, bool) {
	if v.kind != Matrix {
		return nil, false
	}

	return mat.NewDense(v.data.Dim(0), v.data.Dim(1), v.data.Data()), true
}

// ColumnMajor returns the elements first-index-fastest (R/JAGS order).
func (v Value) ColumnMajor() []float64 {
	if v.data == nil {
		return nil
	}

	return v.data.ColumnMajor()
}
