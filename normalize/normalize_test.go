// SPDX-License-Identifier: MIT

package normalize_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
	"github.com/katalvlaran/isomix/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-9

// fixture returns a 4-sample, 2-source, 2-tracer dataset with raw source
// replicates; source 2 has only two of three replicates.
func fixture(t *testing.T) normalize.Input {
	t.Helper()
	na := ndarray.NA()
	raw, err := ndarray.FromSlice([]float64{
		5, 7, 6, // s1 j1
		1, 2, 3, // s1 j2
		10, 12, na, // s2 j1
		4, 6, na, // s2 j2
	}, 2, 2, 3)
	require.NoError(t, err)
	nRep, err := ndarray.FromSlice([]float64{3, 2}, 2)
	require.NoError(t, err)

	return normalize.Input{
		X: mat.NewDense(4, 2, []float64{8, 2, 9, 3, 7, 2.5, 10, 4}),
		Source: &mixdata.Source{
			NSources: 2, DataType: mixdata.Raw,
			SourceArray: raw, NRep: nRep,
		},
		Discrimination: &mixdata.Discrimination{
			Mu:   mat.NewDense(2, 2, []float64{1, 0.5, 2, 1}),
			Sig2: mat.NewDense(2, 2, []float64{0.25, 0.25, 1, 1}),
		},
	}
}

func TestPoolRawAndSummary_HandComputed(t *testing.T) {
	t.Parallel()

	// Pooled {1,3,5,7}: mean 4, SS 20, sd sqrt(20/3).
	want := math.Sqrt(20.0 / 3.0)

	r := normalize.PoolRaw([]float64{1, 3}, []float64{5, 7})
	assert.InDelta(t, 4.0, r.Mean, tol)
	assert.InDelta(t, want, r.SD, tol)

	s := normalize.PoolSummary([]float64{1, 3}, []normalize.Group{{N: 2, Mean: 6, Var: 2}})
	assert.InDelta(t, 4.0, s.Mean, tol)
	assert.InDelta(t, want, s.SD, tol)
}

func TestPoolSummary_SingleMixtureSample(t *testing.T) {
	t.Parallel()

	// One mixture value carries no within-group variance; the result must
	// still match pooling the raw values {2, 5, 7}.
	s := normalize.PoolSummary([]float64{2}, []normalize.Group{{N: 2, Mean: 6, Var: 2}})
	r := normalize.PoolRaw([]float64{2, 5, 7})
	require.False(t, math.IsNaN(s.SD))
	assert.InDelta(t, r.Mean, s.Mean, tol)
	assert.InDelta(t, r.SD, s.SD, tol)
}

func TestPoolSummary_SkipsUnusableGroups(t *testing.T) {
	t.Parallel()

	base := normalize.PoolSummary([]float64{1, 3}, []normalize.Group{{N: 2, Mean: 6, Var: 2}})
	noisy := normalize.PoolSummary(
		[]float64{1, math.NaN(), 3},
		[]normalize.Group{
			{N: 2, Mean: 6, Var: 2},
			{N: 0, Mean: 100, Var: 1},
			{N: 5, Mean: math.NaN(), Var: 1},
		},
	)
	assert.InDelta(t, base.Mean, noisy.Mean, tol)
	assert.InDelta(t, base.SD, noisy.SD, tol)

	// A group of one contributes its mean but no variance.
	one := normalize.PoolSummary(nil, []normalize.Group{{N: 1, Mean: 0, Var: math.NaN()}, {N: 1, Mean: 2}})
	assert.InDelta(t, 1.0, one.Mean, tol)
	assert.InDelta(t, math.Sqrt2, one.SD, tol)
}

func TestNormalize_RoundTrip(t *testing.T) {
	t.Parallel()

	in := fixture(t)
	res, err := normalize.Normalize(in)
	require.NoError(t, err)
	require.Len(t, res.Scales, 2)

	r, c := in.X.Dims()
	for j := 0; j < c; j++ {
		sc := res.Scales[j]
		for i := 0; i < r; i++ {
			assert.InDelta(t, in.X.At(i, j), sc.Restore(res.X.At(i, j)), tol)
		}

		orig, err := in.Source.SourceArray.Slice(mixdata.AxisTracer, j)
		require.NoError(t, err)
		got, err := res.Source.SourceArray.Slice(mixdata.AxisTracer, j)
		require.NoError(t, err)
		for k := range orig {
			if ndarray.IsNA(orig[k]) {
				assert.True(t, ndarray.IsNA(got[k]), "NA stays NA")
				continue
			}
			assert.InDelta(t, orig[k], sc.Restore(got[k]), tol)
		}

		for i := 0; i < 2; i++ {
			assert.InDelta(t, in.Discrimination.Mu.At(i, j), res.Discrimination.Mu.At(i, j)*sc.SD, tol)
			assert.InDelta(t, in.Discrimination.Sig2.At(i, j), res.Discrimination.Sig2.At(i, j)*sc.SD*sc.SD, tol)
		}
	}
}

func TestNormalize_RawMatchesSummary(t *testing.T) {
	t.Parallel()

	in := fixture(t)
	summary, err := normalize.Summarize(in.Source)
	require.NoError(t, err)
	require.Equal(t, mixdata.Means, summary.DataType)

	fromRaw, err := normalize.Normalize(in)
	require.NoError(t, err)
	fromSummary, err := normalize.Normalize(normalize.Input{X: in.X, Source: summary, Discrimination: in.Discrimination})
	require.NoError(t, err)

	for j := range fromRaw.Scales {
		assert.InDelta(t, fromRaw.Scales[j].Mean, fromSummary.Scales[j].Mean, tol, "tracer %d mean", j)
		assert.InDelta(t, fromRaw.Scales[j].SD, fromSummary.Scales[j].SD, tol, "tracer %d sd", j)
	}
	assert.True(t, mat.EqualApprox(fromRaw.X, fromSummary.X, tol))

	// Normalized summary means equal the means of normalized replicates.
	mu, err := fromSummary.Source.MU.At(1, 0)
	require.NoError(t, err)
	a, _ := fromRaw.Source.SourceArray.At(1, 0, 0)
	b, _ := fromRaw.Source.SourceArray.At(1, 0, 1)
	assert.InDelta(t, (a+b)/2, mu, tol)
}

func TestNormalize_RawIgnoresReplicatesPastCount(t *testing.T) {
	t.Parallel()

	// Third replicates are finite padding beyond n_rep.
	raw, err := ndarray.FromSlice([]float64{1, 2, 50, 3, 4, 60}, 2, 1, 3)
	require.NoError(t, err)
	nRep, err := ndarray.FromSlice([]float64{2, 2}, 2)
	require.NoError(t, err)
	in := normalize.Input{
		X:      mat.NewDense(3, 1, []float64{2, 3, 4}),
		Source: &mixdata.Source{NSources: 2, DataType: mixdata.Raw, SourceArray: raw, NRep: nRep},
		Discrimination: &mixdata.Discrimination{
			Mu: mat.NewDense(2, 1, []float64{0, 0}), Sig2: mat.NewDense(2, 1, []float64{0, 0}),
		},
	}

	fromRaw, err := normalize.Normalize(in)
	require.NoError(t, err)
	want := normalize.PoolRaw([]float64{2, 3, 4, 1, 2, 3, 4})
	assert.InDelta(t, want.Mean, fromRaw.Scales[0].Mean, tol)
	assert.InDelta(t, want.SD, fromRaw.Scales[0].SD, tol)

	summary, err := normalize.Summarize(in.Source)
	require.NoError(t, err)
	in.Source = summary
	fromSummary, err := normalize.Normalize(in)
	require.NoError(t, err)
	assert.InDelta(t, fromRaw.Scales[0].Mean, fromSummary.Scales[0].Mean, tol)
	assert.InDelta(t, fromRaw.Scales[0].SD, fromSummary.Scales[0].SD, tol)
}

func TestNormalize_SingleMixtureSampleSummary(t *testing.T) {
	t.Parallel()

	in := fixture(t)
	in.X = mat.NewDense(1, 2, []float64{8, 2})
	summary, err := normalize.Summarize(in.Source)
	require.NoError(t, err)

	fromRaw, err := normalize.Normalize(in)
	require.NoError(t, err)
	in.Source = summary
	fromSummary, err := normalize.Normalize(in)
	require.NoError(t, err)

	for j := range fromRaw.Scales {
		assert.InDelta(t, fromRaw.Scales[j].SD, fromSummary.Scales[j].SD, tol)
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := fixture(t)
	x := mat.DenseCopyOf(in.X)
	raw := in.Source.SourceArray.Data()
	mu := mat.DenseCopyOf(in.Discrimination.Mu)

	_, err := normalize.Normalize(in)
	require.NoError(t, err)

	assert.True(t, mat.Equal(x, in.X))
	assert.True(t, mat.Equal(mu, in.Discrimination.Mu))
	got := in.Source.SourceArray.Data()
	for k := range raw {
		if ndarray.IsNA(raw[k]) {
			assert.True(t, ndarray.IsNA(got[k]))
			continue
		}
		assert.Equal(t, raw[k], got[k])
	}
}

func TestNormalize_DegenerateScale(t *testing.T) {
	t.Parallel()

	in := fixture(t)
	flat, err := ndarray.New(2, 2, 3)
	require.NoError(t, err)
	flat.Fill(5)
	in.Source.SourceArray = flat
	in.X = mat.NewDense(4, 2, []float64{5, 1, 5, 2, 5, 3, 5, 4})

	_, err = normalize.Normalize(in)
	require.ErrorIs(t, err, normalize.ErrDegenerateScale)
	assert.Contains(t, err.Error(), "tracer 1")
}

func TestNormalize_ValidatesShapes(t *testing.T) {
	t.Parallel()

	in := fixture(t)
	in.X = mat.NewDense(4, 3, nil)
	_, err := normalize.Normalize(in)
	assert.ErrorIs(t, err, mixdata.ErrShape)

	_, err = normalize.Normalize(normalize.Input{})
	assert.ErrorIs(t, err, mixdata.ErrMissingData)
}

func TestSummarize_ByFactor(t *testing.T) {
	t.Parallel()

	raw, err := ndarray.FromSlice([]float64{1, 3, 10, ndarray.NA()}, 1, 1, 2, 2)
	require.NoError(t, err)
	nRep, err := ndarray.FromSlice([]float64{2, 1}, 1, 2)
	require.NoError(t, err)
	src := &mixdata.Source{
		NSources: 1, DataType: mixdata.Raw,
		SourceArray: raw, NRep: nRep,
		ByFactor: true, FactorLevels: 2,
	}

	got, err := normalize.Summarize(src)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2}, got.MU.Shape())
	assert.Equal(t, []float64{2, 10}, got.MU.Data())
	assert.Equal(t, []float64{2, 0}, got.SIG2.Data())
	assert.Equal(t, []float64{2, 1}, got.NArray.Data())
	assert.Nil(t, got.SourceArray)
	require.NoError(t, got.Validate(1))

	_, err = normalize.Summarize(got)
	assert.ErrorIs(t, err, mixdata.ErrMissingData)
	got.SourceArray, got.NRep = raw, nRep
	_, err = normalize.Summarize(got)
	assert.ErrorIs(t, err, mixdata.ErrDataType)
}

func ExamplePoolSummary() {
	s := normalize.PoolSummary([]float64{1, 3}, []normalize.Group{{N: 2, Mean: 6, Var: 2}})
	fmt.Printf("mean=%.3f sd=%.3f\n", s.Mean, s.SD)
	// Output: mean=4.000 sd=2.582
}
