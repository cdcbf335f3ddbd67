// SPDX-License-Identifier: MIT

// Package ilr builds the Aitchison-orthonormal basis used by the isometric
// log-ratio (ILR) transform of source proportions.
//
// The basis is computed once on the host and handed to the sampler as
// constant data; the sampler performs the inverse transform per draw
// (perturbation of powered basis columns followed by closure). Inverse
// reproduces that computation for checks and post-processing.
package ilr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTooFewSources indicates fewer than two sources; the simplex has no free coordinate.
	ErrTooFewSources = errors.New("ilr: at least two sources are required")

	// ErrCoordinates indicates len(coords) != columns of the basis.
	ErrCoordinates = errors.New("ilr: coordinate count does not match basis")
)

// Basis returns the n × (n−1) matrix e whose column i (1-based) is the
// closure of exp(ψ_i), with
//
//	ψ_i = ( sqrt(1/(i(i+1))) repeated i times, −sqrt(i/(i+1)), 0 … 0 ).
//
// Every column sums to 1 and every entry is > 0.
// Complexity: O(n²).
func Basis(nSources int) (*mat.Dense, error) {
	if nSources < 2 {
		return nil, fmt.Errorf("Basis: n=%d: %w", nSources, ErrTooFewSources)
	}

	e := mat.NewDense(nSources, nSources-1, nil)
	col := make([]float64, nSources)
	var i, r int
	for i = 1; i < nSources; i++ {
		pos := math.Sqrt(1 / float64(i*(i+1)))
		neg := -math.Sqrt(float64(i) / float64(i+1))
		for r = 0; r < nSources; r++ {
			switch {
			case r < i:
				col[r] = math.Exp(pos)
			case r == i:
				col[r] = math.Exp(neg)
			default:
				col[r] = 1 // exp(0)
			}
		}
		floats.Scale(1/floats.Sum(col), col)
		e.SetCol(i-1, col)
	}

	return e, nil
}

// Inverse maps ILR coordinates back to a composition using basis e:
// each column is raised to its coordinate and closed, the columns are
// multiplied element-wise, and the product is closed.
// Zero coordinates give the uniform composition.
func Inverse(coords []float64, e *mat.Dense) ([]float64, error) {
	n, k := e.Dims()
	if len(coords) != k {
		return nil, fmt.Errorf("Inverse: len=%d, basis columns=%d: %w", len(coords), k, ErrCoordinates)
	}

	p := make([]float64, n)
	for r := range p {
		p[r] = 1
	}
	cross := make([]float64, n)
	var c, r int
	for c = 0; c < k; c++ {
		for r = 0; r < n; r++ {
			cross[r] = math.Pow(e.At(r, c), coords[c])
		}
		floats.Scale(1/floats.Sum(cross), cross)
		floats.Mul(p, cross)
	}
	floats.Scale(1/floats.Sum(p), p)

	return p, nil
}
