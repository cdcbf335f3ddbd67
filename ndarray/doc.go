// Package ndarray provides a small row-major N-dimensional float64 array used
// to carry model data (source replicate cubes, ILR scratch arrays, summary
// statistics) between the assembly stages and the sampler adapters.
//
// What & Why:
//
//	Mixing-model inputs are naturally 2-, 3- or 4-dimensional
//	(source × tracer × [factor level] × replicate). Array keeps a flat
//	backing slice plus a shape, mirrors the bounds-checked At/Set surface of
//	a dense matrix, and treats NaN as the "not available" marker (NA) used
//	for ragged replicate counts and for scratch arrays the sampler fills.
//
// Layout:
//
//	Storage is row-major (last index varies fastest). ColumnMajor exports the
//	first-index-fastest order expected by R/JAGS data files.
//
// Complexity:
//
//	At/Set are O(rank); Clone, Fill, Slice and Apply are O(len).
package ndarray
