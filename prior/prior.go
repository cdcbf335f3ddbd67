// SPDX-License-Identifier: MIT

// Package prior validates and expands the Dirichlet concentration vector
// placed on the global source proportions.
//
// Resolution rules, applied in order:
//  1. A single value equal to 1 expands to n_sources ones (uninformative).
//  2. The value must be a numeric vector of finite entries.
//  3. Its length must equal n_sources.
//  4. No entry may be exactly 0 (use a small positive value such as 0.01).
//
// Negative entries are rejected as well, so every resolved alpha is > 0.
package prior

import (
	"errors"
	"fmt"
	"math"
)

// Default is the sentinel scalar selecting the uninformative prior.
const Default = 1.0

var (
	// ErrInvalidPrior indicates the prior is not a usable numeric vector.
	ErrInvalidPrior = errors.New("prior: not a numeric vector of positive values; use [1, ..., 1] for the uninformative prior")

	// ErrPriorLength indicates len(alpha) != n_sources.
	ErrPriorLength = errors.New("prior: length must equal the number of sources")

	// ErrZeroAlpha indicates an entry equal to 0.
	ErrZeroAlpha = errors.New("prior: alpha entries cannot be 0; set them to a small value such as 0.01 instead")
)

// priorErrorf wraps err with the offending detail.
func priorErrorf(format string, args ...any) error {
	return fmt.Errorf("Resolve: "+format, args...)
}

// Resolve validates alpha for nSources sources and returns a fresh copy.
// Stage 1: expand the scalar sentinel.
// Stage 2: numeric/finite check.
// Stage 3: length check.
// Stage 4: zero and sign checks.
// Complexity: O(nSources).
func Resolve(alpha []float64, nSources int) ([]float64, error) {
	// Stage 1: scalar 1 means "uninformative".
	if len(alpha) == 1 && alpha[0] == Default {
		return Uniform(nSources), nil
	}

	// Stage 2: numeric vector of finite values.
	if len(alpha) == 0 {
		return nil, priorErrorf("empty prior: %w", ErrInvalidPrior)
	}
	for i, a := range alpha {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, priorErrorf("alpha[%d]=%v: %w", i, a, ErrInvalidPrior)
		}
	}

	// Stage 3: one entry per source.
	if len(alpha) != nSources {
		return nil, priorErrorf("len=%d, n_sources=%d: %w", len(alpha), nSources, ErrPriorLength)
	}

	// Stage 4: strictly positive entries.
	for i, a := range alpha {
		if a == 0 {
			return nil, priorErrorf("alpha[%d]: %w", i, ErrZeroAlpha)
		}
	}
	for i, a := range alpha {
		if a < 0 {
			return nil, priorErrorf("alpha[%d]=%v: %w", i, a, ErrInvalidPrior)
		}
	}

	return append([]float64(nil), alpha...), nil
}

// Uniform returns n ones.
func Uniform(n int) []float64 {
	out := make([]float64, max(n, 0))
	for i := range out {
		out[i] = 1
	}

	return out
}

// IsUninformative reports whether every entry of alpha equals 1.
func IsUninformative(alpha []float64) bool {
	for _, a := range alpha {
		if a != 1 {
			return false
		}
	}

	return len(alpha) > 0
}
