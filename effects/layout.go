// SPDX-License-Identifier: MIT

// Package effects assembles the covariate-effect part of the model data.
//
// The mixture's categorical structure is classified once into a closed set
// of Layout variants; Assemble then switches on the variant, so no branch
// re-derives the structure from flags. Continuous covariates are handled by
// AssembleContinuous independently of the layout.
//
//	NoEffects        no factor data
//	OneFactor        factor 1 (fixed or random)
//	TwoFactors       factors 1 and 2, optionally nested
//	FixedPlusRandom  factor 1 fixed + factor 2 fixed or random, expressed as a
//	                 global ILR plus per-factor offsets (no p.fac2)
package effects

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/isomix/mixdata"
)

// ErrLayout indicates a factor configuration no Layout variant describes.
var ErrLayout = errors.New("effects: unsupported factor layout")

// Layout is the closed set of categorical-effect configurations.
type Layout interface {
	isLayout()
	String() string
}

// NoEffects: the mixture has no categorical factor.
type NoEffects struct{}

// OneFactor: a single factor, fixed or random.
type OneFactor struct {
	Factor mixdata.Factor
}

// TwoFactors: two factors modelled with independent per-level proportions.
type TwoFactors struct {
	First, Second mixdata.Factor
}

// FixedPlusRandom: factor 1 fixed and factor 2 fixed or random.
type FixedPlusRandom struct {
	Fixed, Second mixdata.Factor
}

func (NoEffects) isLayout()       {}
func (OneFactor) isLayout()       {}
func (TwoFactors) isLayout()      {}
func (FixedPlusRandom) isLayout() {}

func (NoEffects) String() string { return "none" }

func (l OneFactor) String() string { return "one factor (" + kind(l.Factor) + ")" }

func (l TwoFactors) String() string {
	return "two factors (" + kind(l.First) + ", " + kind(l.Second) + ")"
}

func (l FixedPlusRandom) String() string {
	return "fixed + " + kind(l.Second)
}

func kind(f mixdata.Factor) string {
	if f.Random {
		return "random"
	}

	return "fixed"
}

// Classify maps a mixture onto its Layout.
//
//	0 factors          → NoEffects
//	1 factor           → OneFactor
//	2 factors, !FERE   → TwoFactors
//	2 factors,  FERE   → FixedPlusRandom (factor 1 must be fixed)
//
// FERE with any other factor count, or with a random factor 1, returns ErrLayout.
func Classify(m *mixdata.Mixture) (Layout, error) {
	n := m.NEffects()
	if m.FERE && n != mixdata.MaxFactors {
		return nil, fmt.Errorf("Classify: fere with %d factors: %w", n, ErrLayout)
	}

	switch n {
	case 0:
		return NoEffects{}, nil
	case 1:
		return OneFactor{Factor: m.Factors[0]}, nil
	case 2:
		if !m.FERE {
			return TwoFactors{First: m.Factors[0], Second: m.Factors[1]}, nil
		}
		if m.Factors[0].Random {
			return nil, fmt.Errorf("Classify: fere requires factor 1 fixed: %w", ErrLayout)
		}

		return FixedPlusRandom{Fixed: m.Factors[0], Second: m.Factors[1]}, nil
	default:
		return nil, fmt.Errorf("Classify: %d factors: %w", n, ErrLayout)
	}
}

// Counts returns how many fixed and random factors the layout carries.
func Counts(l Layout) (fixed, random int) {
	var fs []mixdata.Factor
	switch v := l.(type) {
	case OneFactor:
		fs = []mixdata.Factor{v.Factor}
	case TwoFactors:
		fs = []mixdata.Factor{v.First, v.Second}
	case FixedPlusRandom:
		fs = []mixdata.Factor{v.Fixed, v.Second}
	}
	for _, f := range fs {
		if f.Random {
			random++
		} else {
			fixed++
		}
	}

	return fixed, random
}
