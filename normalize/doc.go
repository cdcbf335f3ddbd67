// SPDX-License-Identifier: MIT

// Package normalize puts every tracer on one common scale.
//
// For each tracer j a single pooled (mean, sd) pair is computed from the
// mixture column together with the source data, then applied to every
// quantity measured in that tracer:
//
//	mixture value      (x − mean) / sd
//	raw replicate      (x − mean) / sd
//	source mean        (μ − mean) / sd
//	source variance    σ² / sd²
//	discrimination μ   μ / sd
//	discrimination σ²  σ² / sd²
//
// Pooling:
//   - Raw data: mean and sample standard deviation of every finite value.
//   - Summary data: the combined-sample formulas over groups (n, μ, σ²),
//     with the mixture treated as one more group. A mixture with a single
//     observation contributes no within-group variance term.
//
// Normalize never mutates its input; the Result carries fresh copies and
// the per-tracer Scales needed to map values back.
package normalize
