// SPDX-License-Identifier: MIT

package assemble

import "go.uber.org/zap"

const panicNilLogger = "assemble: WithLogger: logger must not be nil"

// Option configures Build and Run.
type Option func(*options)

// options holds the resolved configuration. Defaults: no-op logger,
// no metrics, seed drawn at build time.
type options struct {
	logger  *zap.Logger
	metrics *Metrics
	seed    uint64
	seeded  bool
}

// WithLogger routes stage logs to l. Panics on nil (programmer error).
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *options) { o.logger = l }
}

// WithMetrics records job counts, failures and durations into m.
// A nil m disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithSeed makes the per-chain initial values reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

func gatherOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
