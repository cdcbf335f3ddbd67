// SPDX-License-Identifier: MIT

package normalize

import (
	"math"

	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
	"gonum.org/v1/gonum/stat"
)

// Scale is the pooled location and spread of one tracer.
type Scale struct {
	Mean float64
	SD   float64
}

// Apply standardizes x.
func (s Scale) Apply(x float64) float64 { return (x - s.Mean) / s.SD }

// Restore maps a standardized value back to the original units.
func (s Scale) Restore(z float64) float64 { return z*s.SD + s.Mean }

// usable reports whether sd can divide.
func (s Scale) usable() bool {
	return s.SD > 0 && !math.IsInf(s.SD, 0) && !math.IsNaN(s.SD) && !math.IsNaN(s.Mean)
}

// Group is one summarized sample: size, mean and (unbiased) variance.
type Group struct {
	N    float64
	Mean float64
	Var  float64
}

// finite returns the finite values of every slice, concatenated.
func finite(values ...[]float64) []float64 {
	n := 0
	for _, vs := range values {
		n += len(vs)
	}
	out := make([]float64, 0, n)
	for _, vs := range values {
		for _, v := range vs {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				out = append(out, v)
			}
		}
	}

	return out
}

// PoolRaw returns the mean and sample standard deviation of every finite
// value across all slices. Fewer than two finite values yield a NaN SD.
// Complexity: O(total values).
func PoolRaw(values ...[]float64) Scale {
	xs := finite(values...)
	if len(xs) == 0 {
		return Scale{Mean: math.NaN(), SD: math.NaN()}
	}
	mean, sd := stat.MeanStdDev(xs, nil)

	return Scale{Mean: mean, SD: sd}
}

// PoolSummary combines the finite mixture values with summarized source
// groups using the combined-sample formulas:
//
//	n    = Nm + Σ n_k
//	mean = (Nm·x̄ + Σ n_k·μ_k) / n
//	SS   = Σ (n_k−1)·σ²_k + (Nm−1)·s²_x + Σ n_k·(μ_k−mean)² + Nm·(x̄−mean)²
//	sd   = sqrt(SS / (n−1))
//
// The (Nm−1)·s²_x term is only present when Nm > 1. Groups with n < 1 or a
// non-finite mean are skipped; groups with n == 1 carry no within-group term.
func PoolSummary(mix []float64, groups []Group) Scale {
	xs := finite(mix)
	nm := float64(len(xs))

	// Stage 1: mixture moments.
	var xbar, xvar float64
	switch {
	case len(xs) > 1:
		xbar, xvar = stat.MeanVariance(xs, nil)
	case len(xs) == 1:
		xbar = xs[0]
	}

	// Stage 2: pooled mean over usable groups.
	used := make([]Group, 0, len(groups))
	total, sum := nm, nm*xbar
	for _, g := range groups {
		if g.N < 1 || math.IsNaN(g.Mean) || math.IsInf(g.Mean, 0) {
			continue
		}
		used = append(used, g)
		total += g.N
		sum += g.N * g.Mean
	}
	if total == 0 {
		return Scale{Mean: math.NaN(), SD: math.NaN()}
	}
	mean := sum / total

	// Stage 3: within- and between-group sums of squares.
	ss := 0.0
	if nm > 1 {
		ss += (nm - 1) * xvar
	}
	ss += nm * (xbar - mean) * (xbar - mean)
	for _, g := range used {
		if g.N > 1 && !math.IsNaN(g.Var) {
			ss += (g.N - 1) * g.Var
		}
		d := g.Mean - mean
		ss += g.N * d * d
	}

	return Scale{Mean: mean, SD: math.Sqrt(ss / (total - 1))}
}

// Summarize converts raw replicates into a summary (means) source.
// Each source (and level) uses its first n_rep replicates; the mean and
// unbiased variance are taken over the finite ones. A single replicate
// gets variance 0 and an empty group gets NA for both.
func Summarize(src *mixdata.Source) (*mixdata.Source, error) {
	const op = "Summarize"
	if src == nil || src.SourceArray == nil || src.NRep == nil {
		return nil, normalizeErrorf(op, mixdata.ErrMissingData)
	}
	if src.DataType != mixdata.Raw {
		return nil, normalizeErrorf(op, mixdata.ErrDataType)
	}

	shape := src.SourceArray.Shape()
	lead, reps := shape[:len(shape)-1], shape[len(shape)-1]
	raw := src.SourceArray.Data()
	nRep := src.NRep.Data()

	cells := len(raw) / reps
	mu := make([]float64, cells)
	sig2 := make([]float64, cells)
	for c := 0; c < cells; c++ {
		xs := finite(counted(raw, c, reps, lead, nRep))
		switch len(xs) {
		case 0:
			mu[c], sig2[c] = ndarray.NA(), ndarray.NA()
		case 1:
			mu[c], sig2[c] = xs[0], 0
		default:
			mu[c], sig2[c] = stat.MeanVariance(xs, nil)
		}
	}

	muArr, err := ndarray.FromSlice(mu, lead...)
	if err != nil {
		return nil, normalizeErrorf(op, err)
	}
	sig2Arr, err := ndarray.FromSlice(sig2, lead...)
	if err != nil {
		return nil, normalizeErrorf(op, err)
	}

	out := cloneSource(src)
	out.DataType = mixdata.Means
	out.SourceArray, out.NRep = nil, nil
	out.MU, out.SIG2, out.NArray = muArr, sig2Arr, src.NRep.Clone()

	return out, nil
}

// counted returns the first n_rep replicates of cell c. Cells without a
// count keep all reps.
func counted(raw []float64, c, reps int, lead []int, nRep []float64) []float64 {
	n := reps
	if k := countIndex(c, lead); k < len(nRep) && int(nRep[k]) < reps {
		n = max(0, int(nRep[k]))
	}

	return raw[c*reps : c*reps+n]
}

// countedTracer returns the counted replicates of every cell of tracer j.
func countedTracer(src *mixdata.Source, j int) [][]float64 {
	shape := src.SourceArray.Shape()
	lead, reps := shape[:len(shape)-1], shape[len(shape)-1]
	inner := 1
	for _, d := range lead[mixdata.AxisTracer+1:] {
		inner *= d
	}
	raw := src.SourceArray.Data()
	var nRep []float64
	if src.NRep != nil {
		nRep = src.NRep.Data()
	}

	out := make([][]float64, 0, len(raw)/reps/lead[mixdata.AxisTracer])
	for c := 0; c < len(raw)/reps; c++ {
		if (c/inner)%lead[mixdata.AxisTracer] != j {
			continue
		}
		out = append(out, counted(raw, c, reps, lead, nRep))
	}

	return out
}

// countIndex maps a row-major cell of a [S,J] or [S,J,L] array to the
// matching row-major index of the [S] or [S,L] count array.
func countIndex(cell int, lead []int) int {
	s := cell
	for axis := len(lead) - 1; axis > mixdata.AxisSource; axis-- {
		s /= lead[axis]
	}
	if len(lead) <= mixdata.AxisLevel {
		return s
	}
	l := cell % lead[mixdata.AxisLevel]

	return s*lead[mixdata.AxisLevel] + l
}
