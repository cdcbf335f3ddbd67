// SPDX-License-Identifier: MIT

package bundle

import "strconv"

// Data names shared with the model definition file.
const (
	XIso      = "X_iso"
	N         = "N"
	NSources  = "n_sources"
	NIso      = "n_iso"
	Alpha     = "alpha"
	FracMu    = "frac_mu"
	FracSig2  = "frac_sig2"
	Basis     = "e"
	Cross     = "cross"
	TmpP      = "tmp.p"
	Identity  = "I"
	SourceArr = "SOURCE_array"
	NRep      = "n_rep"
	MuArr     = "MU_array"
	Sig2Arr   = "SIG2_array"
	NArr      = "n_array"
	SrcLevels = "source_factor_levels"
	Conc      = "conc"

	Factor1Levels = "factor1_levels"
	Factor1       = "Factor.1"
	CrossFac1     = "cross.fac1"
	TmpPFac1      = "tmp.p.fac1"
	Factor2Levels = "factor2_levels"
	Factor2       = "Factor.2"
	CrossFac2     = "cross.fac2"
	TmpPFac2      = "tmp.p.fac2"
	Factor1Lookup = "factor1_lookup"
	Factor2Lookup = "factor2_lookup"
)

// Parameter names reported by the sampler.
const (
	PGlobal   = "p.global"
	LogLik    = "loglik"
	PFac1     = "p.fac1"
	ILRFac1   = "ilr.fac1"
	Fac1Sig   = "fac1.sig"
	PFac2     = "p.fac2"
	ILRFac2   = "ilr.fac2"
	Fac2Sig   = "fac2.sig"
	ILRGlobal = "ilr.global"
	PInd      = "p.ind"
	ResidProp = "resid.prop"
)

// Cont returns the data name of continuous covariate k (1-based): "Cont.k".
func Cont(k int) string { return "Cont." + strconv.Itoa(k) }

// ILRCont returns the slope parameter name of covariate k (1-based): "ilr.contk".
func ILRCont(k int) string { return "ilr.cont" + strconv.Itoa(k) }
