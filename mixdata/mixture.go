// SPDX-License-Identifier: MIT

package mixdata

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MaxFactors is the largest number of categorical factors a mixture may carry.
const MaxFactors = 2

// Factor is a categorical covariate on the mixture observations.
type Factor struct {
	// Name labels the factor in logs; it is not bound into model data.
	Name string

	// Levels is the number of distinct levels (>= 1).
	Levels int

	// Values holds the 1-based level of each observation (len == N).
	Values []int

	// Random marks a random effect; false means fixed.
	Random bool

	// Nested marks this factor as nested within the other factor.
	Nested bool

	// Lookup maps each level of this factor (index level-1) to the 1-based
	// level of the other factor containing it. Required when Nested.
	Lookup []int
}

// Covariate is a continuous covariate with one value per observation.
type Covariate struct {
	Name   string
	Values []float64
}

// Mixture holds the consumer tracer measurements and their covariates.
type Mixture struct {
	// DataIso is the N × n_iso tracer matrix.
	DataIso *mat.Dense

	// Factors carries 0..MaxFactors categorical effects, factor 1 first.
	Factors []Factor

	// FERE is set when the two factors are "fixed + random" (or two fixed),
	// which the model expresses as a global ILR plus per-factor offsets.
	FERE bool

	// Covariates carries the continuous effects.
	Covariates []Covariate
}

// N returns the number of mixture observations.
func (m *Mixture) N() int {
	if m == nil || m.DataIso == nil {
		return 0
	}
	r, _ := m.DataIso.Dims()

	return r
}

// NIso returns the number of tracers.
func (m *Mixture) NIso() int {
	if m == nil || m.DataIso == nil {
		return 0
	}
	_, c := m.DataIso.Dims()

	return c
}

// NEffects returns the number of categorical factors.
func (m *Mixture) NEffects() int { return len(m.Factors) }

// NCE returns the number of continuous covariates.
func (m *Mixture) NCE() int { return len(m.Covariates) }

// NRandom returns how many factors are random effects.
func (m *Mixture) NRandom() int {
	n := 0
	for _, f := range m.Factors {
		if f.Random {
			n++
		}
	}

	return n
}

// NFixed returns how many factors are fixed effects.
func (m *Mixture) NFixed() int { return len(m.Factors) - m.NRandom() }

// Validate checks the mixture's structural invariants.
// Stage 1: tracer matrix present.
// Stage 2: factor count, level assignments and nesting lookups, whose
// entries must be levels of the enclosing factor.
// Stage 3: covariate lengths.
func (m *Mixture) Validate() error {
	if m == nil || m.DataIso == nil {
		return dataErrorf("Mixture.Validate", ErrMissingData)
	}
	n := m.N()

	if len(m.Factors) > MaxFactors {
		return dataErrorf("Mixture.Validate", fmt.Errorf("%d factors: %w", len(m.Factors), ErrFactor))
	}
	for i := range m.Factors {
		if err := m.Factors[i].validate(n, len(m.Factors)); err != nil {
			return dataErrorf(fmt.Sprintf("Mixture.Validate: factor %d", i+1), err)
		}
	}
	for i, f := range m.Factors {
		if !f.Nested {
			continue
		}
		other := m.Factors[1-i]
		for _, v := range f.Lookup {
			if v < 1 || v > other.Levels {
				return dataErrorf(fmt.Sprintf("Mixture.Validate: factor %d", i+1),
					fmt.Errorf("lookup level %d outside 1..%d: %w", v, other.Levels, ErrFactor))
			}
		}
	}

	for k, c := range m.Covariates {
		if len(c.Values) != n {
			return dataErrorf(fmt.Sprintf("Mixture.Validate: covariate %d", k+1), ErrShape)
		}
	}

	return nil
}

func (f *Factor) validate(n, nFactors int) error {
	if f.Levels < 1 {
		return fmt.Errorf("levels=%d: %w", f.Levels, ErrFactor)
	}
	if len(f.Values) != n {
		return fmt.Errorf("values len=%d, N=%d: %w", len(f.Values), n, ErrShape)
	}
	for _, v := range f.Values {
		if v < 1 || v > f.Levels {
			return fmt.Errorf("level %d outside 1..%d: %w", v, f.Levels, ErrFactor)
		}
	}
	if f.Nested {
		if nFactors != MaxFactors {
			return fmt.Errorf("nesting needs two factors: %w", ErrFactor)
		}
		if len(f.Lookup) != f.Levels {
			return fmt.Errorf("lookup len=%d, levels=%d: %w", len(f.Lookup), f.Levels, ErrShape)
		}
	}

	return nil
}
