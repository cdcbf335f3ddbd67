// SPDX-License-Identifier: MIT

package mixdata

import (
	"fmt"

	"github.com/katalvlaran/isomix/ndarray"
	"gonum.org/v1/gonum/mat"
)

// DataType selects how source measurements are supplied.
type DataType int

const (
	// Raw supplies every replicate measurement.
	Raw DataType = iota

	// Means supplies per-source mean, variance and sample size.
	Means
)

// String returns the label used in logs and config files.
func (t DataType) String() string {
	switch t {
	case Raw:
		return "raw"
	case Means:
		return "means"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Axis positions shared by every source array.
const (
	AxisSource = 0 // source index
	AxisTracer = 1 // tracer index
	AxisLevel  = 2 // source factor level (only when ByFactor)
)

// Source holds the source (prey/end-member) data.
//
// Shapes, with S sources, J tracers, L source-factor levels and R the
// largest replicate count (shorter sources are NA-padded):
//
//	Raw,   !ByFactor: SourceArray [S,J,R],   NRep [S]
//	Raw,    ByFactor: SourceArray [S,J,L,R], NRep [S,L]
//	Means, !ByFactor: MU, SIG2 [S,J],   NArray [S]
//	Means,  ByFactor: MU, SIG2 [S,J,L], NArray [S,L]
type Source struct {
	NSources int
	DataType DataType

	SourceArray *ndarray.Array
	NRep        *ndarray.Array

	MU     *ndarray.Array
	SIG2   *ndarray.Array
	NArray *ndarray.Array

	// ByFactor is set when sources were measured per level of a mixture factor.
	ByFactor     bool
	FactorLevels int

	// ConcDep is set when Conc (S × J elemental concentrations) is supplied.
	ConcDep bool
	Conc    *mat.Dense
}

// Validate checks that every array matches S, nIso and (if ByFactor) L.
func (s *Source) Validate(nIso int) error {
	const tag = "Source.Validate"
	if s == nil {
		return dataErrorf(tag, ErrMissingData)
	}
	if s.NSources < 1 {
		return dataErrorf(tag, fmt.Errorf("n_sources=%d: %w", s.NSources, ErrShape))
	}
	if s.ByFactor && s.FactorLevels < 1 {
		return dataErrorf(tag, fmt.Errorf("source factor levels=%d: %w", s.FactorLevels, ErrFactor))
	}

	// Leading extents every tracer-indexed array must carry.
	lead := []int{s.NSources, nIso}
	counts := []int{s.NSources}
	if s.ByFactor {
		lead = append(lead, s.FactorLevels)
		counts = append(counts, s.FactorLevels)
	}

	switch s.DataType {
	case Raw:
		if err := checkArray("SOURCE_array", s.SourceArray, lead, 1); err != nil {
			return dataErrorf(tag, err)
		}
		if err := checkArray("n_rep", s.NRep, counts, 0); err != nil {
			return dataErrorf(tag, err)
		}
	case Means:
		if err := checkArray("MU_array", s.MU, lead, 0); err != nil {
			return dataErrorf(tag, err)
		}
		if err := checkArray("SIG2_array", s.SIG2, lead, 0); err != nil {
			return dataErrorf(tag, err)
		}
		if err := checkArray("n_array", s.NArray, counts, 0); err != nil {
			return dataErrorf(tag, err)
		}
	default:
		return dataErrorf(tag, fmt.Errorf("%v: %w", s.DataType, ErrDataType))
	}

	if s.ConcDep {
		if s.Conc == nil {
			return dataErrorf(tag, fmt.Errorf("conc: %w", ErrMissingData))
		}
		if r, c := s.Conc.Dims(); r != s.NSources || c != nIso {
			return dataErrorf(tag, fmt.Errorf("conc %dx%d: %w", r, c, ErrShape))
		}
	}

	return nil
}

// checkArray verifies a has rank len(lead)+extra and that its leading
// extents equal lead.
func checkArray(name string, a *ndarray.Array, lead []int, extra int) error {
	if a == nil {
		return fmt.Errorf("%s: %w", name, ErrMissingData)
	}
	if a.Rank() != len(lead)+extra {
		return fmt.Errorf("%s rank %d, want %d: %w", name, a.Rank(), len(lead)+extra, ErrShape)
	}
	for axis, want := range lead {
		if a.Dim(axis) != want {
			return fmt.Errorf("%s axis %d = %d, want %d: %w", name, axis, a.Dim(axis), want, ErrShape)
		}
	}

	return nil
}

// Discrimination holds the per-source, per-tracer fractionation offset
// mean and variance (both S × J).
type Discrimination struct {
	Mu   *mat.Dense
	Sig2 *mat.Dense
}

// Validate checks both matrices are S × J.
func (d *Discrimination) Validate(nSources, nIso int) error {
	const tag = "Discrimination.Validate"
	if d == nil || d.Mu == nil || d.Sig2 == nil {
		return dataErrorf(tag, ErrMissingData)
	}
	if r, c := d.Mu.Dims(); r != nSources || c != nIso {
		return dataErrorf(tag, fmt.Errorf("mu %dx%d, want %dx%d: %w", r, c, nSources, nIso, ErrShape))
	}
	if r, c := d.Sig2.Dims(); r != nSources || c != nIso {
		return dataErrorf(tag, fmt.Errorf("sig2 %dx%d, want %dx%d: %w", r, c, nSources, nIso, ErrShape))
	}

	return nil
}
