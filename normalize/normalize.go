// SPDX-License-Identifier: MIT

package normalize

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateScale indicates a tracer whose pooled sd is zero or not finite.
var ErrDegenerateScale = errors.New("normalize: pooled standard deviation is zero or not finite")

const opNormalize = "Normalize"

func normalizeErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// Input is the data to rescale. None of it is modified.
type Input struct {
	// X is the N × n_iso mixture matrix.
	X mat.Matrix

	Source         *mixdata.Source
	Discrimination *mixdata.Discrimination
}

// Result holds rescaled copies of every input plus the scale used per tracer.
type Result struct {
	X              *mat.Dense
	Source         *mixdata.Source
	Discrimination *mixdata.Discrimination

	// Scales has one entry per tracer, in column order.
	Scales []Scale
}

// Normalize pools each tracer and rescales mixture, source and
// discrimination data with the same (mean, sd) pair.
// Stage 1 (Validate): shapes of source and discrimination against X.
// Stage 2 (Pool): one Scale per tracer, from raw values or group summaries.
// Stage 3 (Apply): rescale the copies.
// Complexity: O(n_iso · (N + |source|)).
func Normalize(in Input) (*Result, error) {
	if in.X == nil {
		return nil, normalizeErrorf(opNormalize, mixdata.ErrMissingData)
	}
	_, nIso := in.X.Dims()
	if err := in.Source.Validate(nIso); err != nil {
		return nil, normalizeErrorf(opNormalize, err)
	}
	if err := in.Discrimination.Validate(in.Source.NSources, nIso); err != nil {
		return nil, normalizeErrorf(opNormalize, err)
	}

	res := &Result{
		X:      mat.DenseCopyOf(in.X),
		Source: cloneSource(in.Source),
		Discrimination: &mixdata.Discrimination{
			Mu:   mat.DenseCopyOf(in.Discrimination.Mu),
			Sig2: mat.DenseCopyOf(in.Discrimination.Sig2),
		},
		Scales: make([]Scale, nIso),
	}

	for j := 0; j < nIso; j++ {
		sc, err := poolTracer(res.X, res.Source, j)
		if err != nil {
			return nil, normalizeErrorf(opNormalize, err)
		}
		if !sc.usable() {
			return nil, normalizeErrorf(opNormalize, fmt.Errorf("tracer %d (mean=%g sd=%g): %w", j+1, sc.Mean, sc.SD, ErrDegenerateScale))
		}
		if err = rescale(res, j, sc); err != nil {
			return nil, normalizeErrorf(opNormalize, err)
		}
		res.Scales[j] = sc
	}

	return res, nil
}

// poolTracer computes the Scale of tracer j.
func poolTracer(x *mat.Dense, src *mixdata.Source, j int) (Scale, error) {
	mix := mat.Col(nil, j, x)

	if src.DataType == mixdata.Raw {
		return PoolRaw(append([][]float64{mix}, countedTracer(src, j)...)...), nil
	}

	mu, err := src.MU.Slice(mixdata.AxisTracer, j)
	if err != nil {
		return Scale{}, err
	}
	sig2, err := src.SIG2.Slice(mixdata.AxisTracer, j)
	if err != nil {
		return Scale{}, err
	}
	n := src.NArray.Data()
	groups := make([]Group, len(mu))
	for k := range mu {
		groups[k] = Group{N: n[k], Mean: mu[k], Var: sig2[k]}
	}

	return PoolSummary(mix, groups), nil
}

// rescale applies sc to every tracer-j quantity held by res.
func rescale(res *Result, j int, sc Scale) error {
	r, _ := res.X.Dims()
	var i int
	for i = 0; i < r; i++ {
		res.X.Set(i, j, sc.Apply(res.X.At(i, j)))
	}

	sd2 := sc.SD * sc.SD
	variance := func(v float64) float64 { return v / sd2 }

	src := res.Source
	if src.DataType == mixdata.Raw {
		if err := src.SourceArray.Apply(mixdata.AxisTracer, j, sc.Apply); err != nil {
			return err
		}
	} else {
		if err := src.MU.Apply(mixdata.AxisTracer, j, sc.Apply); err != nil {
			return err
		}
		if err := src.SIG2.Apply(mixdata.AxisTracer, j, variance); err != nil {
			return err
		}
	}

	d := res.Discrimination
	for i = 0; i < src.NSources; i++ {
		d.Mu.Set(i, j, d.Mu.At(i, j)/sc.SD)
		d.Sig2.Set(i, j, variance(d.Sig2.At(i, j)))
	}

	return nil
}

// cloneSource deep-copies every array of src.
func cloneSource(src *mixdata.Source) *mixdata.Source {
	out := *src
	for _, p := range []**ndarray.Array{&out.SourceArray, &out.NRep, &out.MU, &out.SIG2, &out.NArray} {
		if *p != nil {
			*p = (*p).Clone()
		}
	}
	if out.Conc != nil {
		out.Conc = mat.DenseCopyOf(out.Conc)
	}

	return &out
}
