// SPDX-License-Identifier: MIT

package assemble

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/isomix/bundle"
	"github.com/katalvlaran/isomix/effects"
	"github.com/katalvlaran/isomix/ilr"
	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
	"github.com/katalvlaran/isomix/normalize"
	"github.com/katalvlaran/isomix/prior"
	"github.com/katalvlaran/isomix/runconfig"
	"github.com/katalvlaran/isomix/sources"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknownErrorStructure indicates the model file declares no recognized error structure.
	ErrUnknownErrorStructure = errors.New("assemble: unknown error structure")

	// ErrInformativePriorFixedEffects indicates an informative prior combined
	// with fixed effects only, where the prior would not act on p.global.
	ErrInformativePriorFixedEffects = errors.New("assemble: informative prior is not supported with only fixed effects")

	// ErrNilInput indicates Build was called without input.
	ErrNilInput = errors.New("assemble: nil input")
)

const opBuild = "Build"

func assembleErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// Input is everything one model run needs.
type Input struct {
	// Run is a preset name or an explicit record.
	Run runconfig.Setting

	Mixture        *mixdata.Mixture
	Source         *mixdata.Source
	Discrimination *mixdata.Discrimination

	// ModelFile is the model definition handed to the sampler. Its line 8
	// declares the error structure.
	ModelFile string

	// Alpha is the prior; nil or [1] selects the uninformative prior.
	Alpha []float64
}

// Job is an assembled, immutable sampler request.
type Job struct {
	ID uuid.UUID

	// Data is frozen; Params lists the monitored parameters.
	Data   *bundle.Bundle
	Params []string

	ModelFile      string
	Run            runconfig.Run
	ErrorStructure ErrorStructure
	Layout         effects.Layout
	Alpha          []float64

	// Scales maps normalized tracer values back to original units.
	Scales []normalize.Scale

	seed uint64
}

// Build validates in and assembles a Job.
func Build(in *Input, opts ...Option) (*Job, error) {
	o := gatherOptions(opts)
	job, stage, err := build(in, &o)
	if err != nil {
		o.metrics.failed(stage)
		o.logger.Debug("assembly failed", zap.String("stage", stage), zap.Error(err))

		return nil, assembleErrorf(opBuild, err)
	}

	return job, nil
}

// build returns the failing stage alongside any error.
func build(in *Input, o *options) (*Job, string, error) {
	start := time.Now()
	if in == nil {
		return nil, StageValidate, ErrNilInput
	}

	// Stage 1 (validate): everything that can reject the input.
	es, run, alpha, layout, err := validate(in)
	if err != nil {
		return nil, StageValidate, err
	}

	job := &Job{
		ID:             uuid.New(),
		ModelFile:      in.ModelFile,
		Run:            run,
		ErrorStructure: es,
		Layout:         layout,
		Alpha:          alpha,
		seed:           o.seed,
	}
	if !o.seeded {
		job.seed = rand.Uint64()
	}
	log := o.logger.With(zap.String("job", job.ID.String()))

	m, src := in.Mixture, in.Source
	nSources, nIso := src.NSources, m.NIso()
	b := bundle.New()

	// Stage 2 (basis): e plus the global inverse-ILR scratch arrays.
	if err = bindBasis(b, nSources); err != nil {
		return nil, StageBasis, err
	}

	// Stage 3 (effects).
	if err = effects.Assemble(b, layout, nSources); err != nil {
		return nil, StageEffects, err
	}
	if err = effects.AssembleContinuous(b, m.Covariates); err != nil {
		return nil, StageEffects, err
	}
	log.Debug("effects assembled", zap.Stringer("layout", layout), zap.Int("continuous", m.NCE()))

	// Stage 4 (normalize).
	norm, err := normalize.Normalize(normalize.Input{X: m.DataIso, Source: src, Discrimination: in.Discrimination})
	if err != nil {
		return nil, StageNormalize, err
	}
	job.Scales = norm.Scales

	// Stage 5 (sources).
	if err = sources.Assemble(b, norm.Source); err != nil {
		return nil, StageSources, err
	}

	// Stage 6 (bind): core data and error-structure fields.
	if err = bindCore(b, norm, alpha, m.N(), nSources, nIso); err != nil {
		return nil, StageBind, err
	}
	if err = bindErrorStructure(b, es, norm.Discrimination, nIso); err != nil {
		return nil, StageBind, err
	}
	b.Freeze()

	job.Data = b
	job.Params = b.Params()
	elapsed := time.Since(start)
	o.metrics.jobBuilt(es, elapsed)
	log.Info("job assembled",
		zap.Int("n", m.N()),
		zap.Int("sources", nSources),
		zap.Int("tracers", nIso),
		zap.Stringer("error_structure", es),
		zap.Strings("params", job.Params),
		zap.Duration("elapsed", elapsed),
	)

	return job, "", nil
}

// validate runs every input check before any numeric work.
func validate(in *Input) (ErrorStructure, runconfig.Run, []float64, effects.Layout, error) {
	es, err := ReadErrorStructureFile(in.ModelFile)
	if err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}
	run, err := in.Run.Run()
	if err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}

	m, src := in.Mixture, in.Source
	if err = m.Validate(); err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}
	if err = src.Validate(m.NIso()); err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}
	if err = in.Discrimination.Validate(src.NSources, m.NIso()); err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}
	if src.NSources < 2 {
		return 0, runconfig.Run{}, nil, nil, fmt.Errorf("n_sources=%d: %w", src.NSources, ilr.ErrTooFewSources)
	}
	if src.ByFactor && m.NEffects() == 0 {
		return 0, runconfig.Run{}, nil, nil, fmt.Errorf("sources by factor without a mixture factor: %w", mixdata.ErrFactor)
	}

	raw := in.Alpha
	if len(raw) == 0 {
		raw = []float64{prior.Default}
	}
	alpha, err := prior.Resolve(raw, src.NSources)
	if err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}

	layout, err := effects.Classify(m)
	if err != nil {
		return 0, runconfig.Run{}, nil, nil, err
	}
	if fe, re := effects.Counts(layout); !prior.IsUninformative(alpha) && fe > 0 && re == 0 {
		return 0, runconfig.Run{}, nil, nil, ErrInformativePriorFixedEffects
	}

	return es, run, alpha, layout, nil
}

func bindBasis(b *bundle.Bundle, nSources int) error {
	e, err := ilr.Basis(nSources)
	if err != nil {
		return err
	}
	ev, err := bundle.MatrixOf(e)
	if err != nil {
		return err
	}
	cross, err := ndarray.NewNA(nSources, nSources-1)
	if err != nil {
		return err
	}
	tmp, err := ndarray.NewNA(nSources)
	if err != nil {
		return err
	}
	cv, err := bundle.ArrayOf(cross)
	if err != nil {
		return err
	}
	tv, err := bundle.ArrayOf(tmp)
	if err != nil {
		return err
	}
	if err = b.Bind(bundle.Basis, ev); err != nil {
		return err
	}
	if err = b.Bind(bundle.Cross, cv); err != nil {
		return err
	}
	if err = b.Bind(bundle.TmpP, tv); err != nil {
		return err
	}

	return b.Report(bundle.PGlobal, bundle.LogLik)
}

// bindCore binds the always-present data.
func bindCore(b *bundle.Bundle, norm *normalize.Result, alpha []float64, n, nSources, nIso int) error {
	x, err := bundle.MatrixOf(norm.X)
	if err != nil {
		return err
	}
	av, err := bundle.VectorOf(alpha)
	if err != nil {
		return err
	}
	mu, err := bundle.MatrixOf(norm.Discrimination.Mu)
	if err != nil {
		return err
	}
	for _, kv := range []struct {
		name string
		v    bundle.Value
	}{
		{bundle.XIso, x},
		{bundle.N, bundle.IntOf(n)},
		{bundle.NSources, bundle.IntOf(nSources)},
		{bundle.NIso, bundle.IntOf(nIso)},
		{bundle.Alpha, av},
		{bundle.FracMu, mu},
	} {
		if err = b.Bind(kv.name, kv.v); err != nil {
			return err
		}
	}

	return nil
}

// bindErrorStructure adds I (resid, n_iso > 1), frac_sig2 (not resid) and
// the resid.prop parameter (mult).
func bindErrorStructure(b *bundle.Bundle, es ErrorStructure, d *mixdata.Discrimination, nIso int) error {
	if es == Resid && nIso > 1 {
		ident := mat.NewDiagDense(nIso, nil)
		for i := 0; i < nIso; i++ {
			ident.SetDiag(i, 1)
		}
		v, err := bundle.MatrixOf(ident)
		if err != nil {
			return err
		}
		if err = b.Bind(bundle.Identity, v); err != nil {
			return err
		}
	}
	if es != Resid {
		v, err := bundle.MatrixOf(d.Sig2)
		if err != nil {
			return err
		}
		if err = b.Bind(bundle.FracSig2, v); err != nil {
			return err
		}
	}
	if es == Mult {
		return b.Report(bundle.ResidProp)
	}

	return nil
}
