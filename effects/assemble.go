// SPDX-License-Identifier: MIT

package effects

import (
	"fmt"

	"github.com/katalvlaran/isomix/bundle"
	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
)

// Operation names for error wrapping.
const (
	opAssemble           = "Assemble"
	opAssembleContinuous = "AssembleContinuous"
)

func effectsErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// factorNames groups the data names used for one factor slot.
type factorNames struct {
	levels, values, cross, tmp string
}

var (
	slot1 = factorNames{bundle.Factor1Levels, bundle.Factor1, bundle.CrossFac1, bundle.TmpPFac1}
	slot2 = factorNames{bundle.Factor2Levels, bundle.Factor2, bundle.CrossFac2, bundle.TmpPFac2}
)

// Assemble binds the factor data of layout l into b and registers the
// parameters the layout reports. nSources sizes the ILR scratch arrays.
func Assemble(b *bundle.Bundle, l Layout, nSources int) error {
	var err error
	switch v := l.(type) {
	case NoEffects:
		return nil
	case OneFactor:
		err = assembleIndependent(b, slot1, v.Factor, nSources, bundle.PFac1, bundle.ILRFac1, bundle.Fac1Sig)
	case TwoFactors:
		err = assembleTwo(b, v, nSources)
	case FixedPlusRandom:
		err = assembleFixedPlusRandom(b, v, nSources)
	default:
		err = fmt.Errorf("%T: %w", l, ErrLayout)
	}
	if err != nil {
		return effectsErrorf(opAssemble, err)
	}

	return nil
}

// assembleIndependent handles one factor with its own per-level proportions.
func assembleIndependent(b *bundle.Bundle, names factorNames, f mixdata.Factor, nSources int, p, ilr, sig string) error {
	if err := bindFactor(b, names, f); err != nil {
		return err
	}
	if err := bindScratch(b, names, f.Levels, nSources); err != nil {
		return err
	}
	if f.Random {
		if err := b.Report(sig); err != nil {
			return err
		}
	}

	return b.Report(p, ilr)
}

func assembleTwo(b *bundle.Bundle, v TwoFactors, nSources int) error {
	if err := assembleIndependent(b, slot1, v.First, nSources, bundle.PFac1, bundle.ILRFac1, bundle.Fac1Sig); err != nil {
		return err
	}
	// Factor 1 nested in factor 2: per level of factor 1, the factor-2 level.
	if v.First.Nested {
		if err := bindInts(b, bundle.Factor2Lookup, v.First.Lookup); err != nil {
			return err
		}
	}
	if v.Second.Nested {
		if err := bindInts(b, bundle.Factor1Lookup, v.Second.Lookup); err != nil {
			return err
		}
	}

	return assembleIndependent(b, slot2, v.Second, nSources, bundle.PFac2, bundle.ILRFac2, bundle.Fac2Sig)
}

func assembleFixedPlusRandom(b *bundle.Bundle, v FixedPlusRandom, nSources int) error {
	// With exactly one random effect the fixed factor still gets
	// per-level proportions.
	if v.Second.Random {
		if err := bindScratch(b, slot1, v.Fixed.Levels, nSources); err != nil {
			return err
		}
		if err := b.Report(bundle.PFac1); err != nil {
			return err
		}
	}
	if err := bindFactor(b, slot1, v.Fixed); err != nil {
		return err
	}
	if err := bindFactor(b, slot2, v.Second); err != nil {
		return err
	}
	if err := b.Report(bundle.ILRGlobal, bundle.ILRFac1, bundle.ILRFac2); err != nil {
		return err
	}
	if v.Second.Random {
		return b.Report(bundle.Fac2Sig)
	}

	return nil
}

// AssembleContinuous binds "Cont.k" for every covariate and registers
// ilr.global, one ilr.contk slope per covariate and p.ind.
func AssembleContinuous(b *bundle.Bundle, covariates []mixdata.Covariate) error {
	if len(covariates) == 0 {
		return nil
	}
	for k := range covariates {
		v, err := bundle.VectorOf(covariates[k].Values)
		if err != nil {
			return effectsErrorf(opAssembleContinuous, fmt.Errorf("covariate %d: %w", k+1, err))
		}
		if err = b.Bind(bundle.Cont(k+1), v); err != nil {
			return effectsErrorf(opAssembleContinuous, err)
		}
	}
	if err := b.Report(bundle.ILRGlobal); err != nil {
		return effectsErrorf(opAssembleContinuous, err)
	}
	for k := range covariates {
		if err := b.Report(bundle.ILRCont(k + 1)); err != nil {
			return effectsErrorf(opAssembleContinuous, err)
		}
	}
	if err := b.Report(bundle.PInd); err != nil {
		return effectsErrorf(opAssembleContinuous, err)
	}

	return nil
}

// bindFactor binds the level count and per-observation levels.
func bindFactor(b *bundle.Bundle, names factorNames, f mixdata.Factor) error {
	if err := b.Bind(names.levels, bundle.IntOf(f.Levels)); err != nil {
		return err
	}

	return bindInts(b, names.values, f.Values)
}

// bindScratch binds the NA arrays the sampler fills during the inverse ILR:
// cross (levels × S × S−1) and tmp.p (levels × S).
func bindScratch(b *bundle.Bundle, names factorNames, levels, nSources int) error {
	cross, err := ndarray.NewNA(levels, nSources, nSources-1)
	if err != nil {
		return fmt.Errorf("%s: %w", names.cross, err)
	}
	tmp, err := ndarray.NewNA(levels, nSources)
	if err != nil {
		return fmt.Errorf("%s: %w", names.tmp, err)
	}
	cv, err := bundle.ArrayOf(cross)
	if err != nil {
		return err
	}
	tv, err := bundle.ArrayOf(tmp)
	if err != nil {
		return err
	}
	if err = b.Bind(names.cross, cv); err != nil {
		return err
	}

	return b.Bind(names.tmp, tv)
}

func bindInts(b *bundle.Bundle, name string, xs []int) error {
	v, err := bundle.IntsOf(xs)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return b.Bind(name, v)
}
