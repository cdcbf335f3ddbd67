// SPDX-License-Identifier: MIT

package assemble

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure stages used as the "stage" label.
const (
	StageValidate  = "validate"
	StageBasis     = "basis"
	StageEffects   = "effects"
	StageNormalize = "normalize"
	StageSources   = "sources"
	StageBind      = "bind"
	StageSampler   = "sampler"
)

// Metrics holds the assembly collectors. All methods are nil-safe.
type Metrics struct {
	jobsTotal       *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	samplerDuration prometheus.Histogram
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "isomix",
				Subsystem: "assemble",
				Name:      "jobs_total",
				Help:      "Jobs assembled, by error structure",
			},
			[]string{"error_structure"},
		),
		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "isomix",
				Subsystem: "assemble",
				Name:      "failures_total",
				Help:      "Assembly or sampler failures, by stage",
			},
			[]string{"stage"},
		),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "isomix",
			Subsystem: "assemble",
			Name:      "duration_seconds",
			Help:      "Time spent assembling model data",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		samplerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "isomix",
			Subsystem: "sampler",
			Name:      "duration_seconds",
			Help:      "Time spent in the external sampler",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.jobsTotal, m.failuresTotal, m.buildDuration, m.samplerDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

func (m *Metrics) jobBuilt(es ErrorStructure, d time.Duration) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(es.String()).Inc()
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) failed(stage string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(stage).Inc()
}

func (m *Metrics) sampled(d time.Duration) {
	if m == nil {
		return
	}
	m.samplerDuration.Observe(d.Seconds())
}
