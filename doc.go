// Package isomix assembles the data of Bayesian stable-isotope mixing models
// and hands it to an MCMC sampler.
//
// 🚀 What is isomix?
//
//	A small pipeline that turns consumer (mixture) tracer values, source
//	values and discrimination factors into the exact named data and
//	parameter list a mixing model expects:
//		• Run settings: seven presets ("test" … "extreme") or explicit records
//		• Priors: Dirichlet alpha validation and expansion
//		• ILR basis: the orthonormal simplex basis e
//		• Effects: fixed, random, nested and fixed+random factors, covariates
//		• Sources: raw replicates or mean/variance/n summaries
//		• Normalization: one pooled (mean, sd) per tracer, applied everywhere
//		• JAGS: R dump data, per-chain inits, concurrent chains, CODA, DIC
//
// Under the hood:
//
//	ndarray/    — row-major N-d float arrays with NA, column-major export
//	mixdata/    — mixture, source and discrimination records + validation
//	runconfig/  — run presets and records (YAML aware)
//	prior/      — alpha resolution (YAML aware)
//	ilr/        — ILR basis and inverse transform
//	bundle/     — ordered name → value data bundle, parameter list
//	effects/    — factor layouts and continuous covariates
//	sources/    — source data binding
//	normalize/  — pooled per-tracer rescaling
//	assemble/   — Build/Run orchestration, inits, logging, metrics
//	jags/       — JAGS command-line sampler adapter
//
// Pipeline:
//
//	model file ─▶ error structure ┐
//	run + prior ──────────────────┤
//	mixture/sources ─▶ validate ──┴─▶ basis ─▶ effects ─▶ normalize ─▶ sources ─▶ bundle ─▶ sampler
//
// See examples/ for a complete program.
package isomix
