// SPDX-License-Identifier: MIT

// Package sources binds source data into the model-data bundle.
//
// Exactly one of two shapes is bound: raw replicates (SOURCE_array, n_rep)
// or summaries (MU_array, SIG2_array, n_array). The source-factor level
// count and the concentration matrix are independent additions.
package sources

import (
	"fmt"

	"github.com/katalvlaran/isomix/bundle"
	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
)

func sourcesErrorf(err error) error {
	return fmt.Errorf("sources.Assemble: %w", err)
}

// Assemble binds src into b. src is expected to be validated (and usually
// already normalized); arrays are cloned, so later changes to src do not
// leak into the bundle.
func Assemble(b *bundle.Bundle, src *mixdata.Source) error {
	if src == nil {
		return sourcesErrorf(mixdata.ErrMissingData)
	}

	var err error
	switch src.DataType {
	case mixdata.Raw:
		err = bindArrays(b,
			named{bundle.SourceArr, src.SourceArray},
			named{bundle.NRep, src.NRep},
		)
	case mixdata.Means:
		err = bindArrays(b,
			named{bundle.MuArr, src.MU},
			named{bundle.Sig2Arr, src.SIG2},
			named{bundle.NArr, src.NArray},
		)
	default:
		err = fmt.Errorf("%v: %w", src.DataType, mixdata.ErrDataType)
	}
	if err != nil {
		return sourcesErrorf(err)
	}

	if src.ByFactor {
		if err = b.Bind(bundle.SrcLevels, bundle.IntOf(src.FactorLevels)); err != nil {
			return sourcesErrorf(err)
		}
	}
	if src.ConcDep {
		if src.Conc == nil {
			return sourcesErrorf(fmt.Errorf("%s: %w", bundle.Conc, mixdata.ErrMissingData))
		}
		v, err := bundle.MatrixOf(src.Conc)
		if err != nil {
			return sourcesErrorf(err)
		}
		if err = b.Bind(bundle.Conc, v); err != nil {
			return sourcesErrorf(err)
		}
	}

	return nil
}

type named struct {
	name string
	arr  *ndarray.Array
}

func bindArrays(b *bundle.Bundle, items ...named) error {
	for _, it := range items {
		v, err := bundle.ArrayOf(it.arr)
		if err != nil {
			return fmt.Errorf("%s: %w", it.name, err)
		}
		if err = b.Bind(it.name, v); err != nil {
			return err
		}
	}

	return nil
}
