// SPDX-License-Identifier: MIT

// Package assemble turns mixture, source and discrimination data into the
// frozen model-data bundle an MCMC sampler consumes, then hands it over.
//
// Build runs these stages, stopping at the first error:
//
//	validate   model-file error structure, run setting, prior, data shapes
//	basis      ILR basis e and global scratch arrays
//	effects    categorical layout and continuous covariates
//	normalize  pooled per-tracer rescaling of every tracer quantity
//	sources    source data, taken from the normalized copy
//	bind       error-structure dependent fields, then freeze
//
// All validation happens before any numeric work. The resulting Job also
// carries per-chain initial values for the global proportions, drawn from
// Dirichlet(alpha).
//
// Run builds a Job and passes it to a Sampler; the sampler's result and
// error are returned unchanged.
package assemble
