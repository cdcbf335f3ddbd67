// Package mixdata defines the input records of a stable-isotope mixing model:
// the mixture (consumer) measurements with their categorical and continuous
// covariates, the source data (raw replicates or mean/variance/n summaries)
// and the discrimination (fractionation) offsets.
//
// Records are plain values owned by the caller. Validate methods check the
// structural invariants every downstream assembler relies on, so that shape
// errors surface before any normalization or sampler call.
package mixdata
