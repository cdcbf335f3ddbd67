// SPDX-License-Identifier: MIT

package assemble

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sampler runs the MCMC engine on an assembled Job.
type Sampler[R any] interface {
	Sample(ctx context.Context, job *Job) (R, error)
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc[R any] func(ctx context.Context, job *Job) (R, error)

// Sample calls f.
func (f SamplerFunc[R]) Sample(ctx context.Context, job *Job) (R, error) { return f(ctx, job) }

// Run builds a Job from in and passes it to s. Assembly errors are wrapped;
// the sampler's output and error are returned unmodified.
func Run[R any](ctx context.Context, s Sampler[R], in *Input, opts ...Option) (R, error) {
	var zero R
	o := gatherOptions(opts)

	job, err := Build(in, opts...)
	if err != nil {
		return zero, err
	}

	start := time.Now()
	out, err := s.Sample(ctx, job)
	elapsed := time.Since(start)
	o.metrics.sampled(elapsed)
	if err != nil {
		o.metrics.failed(StageSampler)
		o.logger.Warn("sampler failed", zap.String("job", job.ID.String()), zap.Error(err))

		return out, err
	}
	o.logger.Info("sampler finished",
		zap.String("job", job.ID.String()),
		zap.Int("chains", job.Run.Chains),
		zap.Duration("elapsed", elapsed),
	)

	return out, nil
}
