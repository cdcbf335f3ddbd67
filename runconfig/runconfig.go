// SPDX-License-Identifier: MIT

// Package runconfig resolves MCMC run-length settings.
//
// A Setting is either one of seven named presets ("test" … "extreme") or an
// explicit Run record. Both resolve to a validated Run that the sampler
// adapters consume. Settings decode from YAML as either a scalar preset name
// or a mapping:
//
//	run: normal
//
//	run:
//	  chain_length: 20000
//	  burn: 10000
//	  thin: 10
//	  chains: 3
//	  calc_dic: true
package runconfig

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig is returned for unknown preset names and invalid run records.
var ErrConfig = errors.New("runconfig: invalid run configuration")

// Run is a concrete MCMC run configuration.
//
// Invariants: ChainLength >= 1, 0 <= Burn < ChainLength, Thin >= 1, Chains >= 1.
type Run struct {
	ChainLength int  `yaml:"chain_length"`
	Burn        int  `yaml:"burn"`
	Thin        int  `yaml:"thin"`
	Chains      int  `yaml:"chains"`
	CalcDIC     bool `yaml:"calc_dic"`
}

// Preset names, shortest first.
const (
	Test      = "test"
	VeryShort = "very short"
	Short     = "short"
	Normal    = "normal"
	Long      = "long"
	VeryLong  = "very long"
	Extreme   = "extreme"
)

// presetOrder keeps Presets deterministic.
var presetOrder = []string{Test, VeryShort, Short, Normal, Long, VeryLong, Extreme}

var presets = map[string]Run{
	Test:      {ChainLength: 1000, Burn: 500, Thin: 1, Chains: 3, CalcDIC: true},
	VeryShort: {ChainLength: 10000, Burn: 5000, Thin: 5, Chains: 3, CalcDIC: true},
	Short:     {ChainLength: 50000, Burn: 25000, Thin: 25, Chains: 3, CalcDIC: true},
	Normal:    {ChainLength: 100000, Burn: 50000, Thin: 50, Chains: 3, CalcDIC: true},
	Long:      {ChainLength: 300000, Burn: 200000, Thin: 100, Chains: 3, CalcDIC: true},
	VeryLong:  {ChainLength: 1000000, Burn: 500000, Thin: 500, Chains: 3, CalcDIC: true},
	Extreme:   {ChainLength: 3000000, Burn: 1500000, Thin: 500, Chains: 3, CalcDIC: true},
}

// Presets returns the recognized preset names, shortest run first.
func Presets() []string { return append([]string(nil), presetOrder...) }

// Resolve maps a preset name to its Run.
// Returns ErrConfig for unrecognized names; matching is exact.
func Resolve(name string) (Run, error) {
	r, ok := presets[name]
	if !ok {
		return Run{}, fmt.Errorf("preset %q (want one of %s): %w",
			name, strings.Join(presetOrder, ", "), ErrConfig)
	}

	return r, nil
}

// Validate checks the Run invariants.
func (r Run) Validate() error {
	switch {
	case r.ChainLength < 1:
		return fmt.Errorf("chain_length=%d must be >= 1: %w", r.ChainLength, ErrConfig)
	case r.Burn < 0 || r.Burn >= r.ChainLength:
		return fmt.Errorf("burn=%d must be in [0, chain_length=%d): %w", r.Burn, r.ChainLength, ErrConfig)
	case r.Thin < 1:
		return fmt.Errorf("thin=%d must be >= 1: %w", r.Thin, ErrConfig)
	case r.Chains < 1:
		return fmt.Errorf("chains=%d must be >= 1: %w", r.Chains, ErrConfig)
	}

	return nil
}

// Samples returns the number of draws retained per chain after burn-in and thinning.
func (r Run) Samples() int {
	if r.Thin < 1 || r.ChainLength <= r.Burn {
		return 0
	}

	return (r.ChainLength - r.Burn) / r.Thin
}

// Setting is a run setting given either by preset name or by explicit record.
// The zero Setting is invalid.
type Setting struct {
	preset string
	record *Run
}

// FromPreset returns a Setting naming a preset (resolved lazily by Run).
func FromPreset(name string) Setting { return Setting{preset: name} }

// FromRun returns a Setting wrapping an explicit record.
func FromRun(r Run) Setting { return Setting{record: &r} }

// Run resolves the Setting to a validated Run.
func (s Setting) Run() (Run, error) {
	if s.record != nil {
		if err := s.record.Validate(); err != nil {
			return Run{}, err
		}

		return *s.record, nil
	}
	if s.preset == "" {
		return Run{}, fmt.Errorf("neither preset nor record given: %w", ErrConfig)
	}

	return Resolve(s.preset)
}

// String returns the preset name or a compact record form.
func (s Setting) String() string {
	if s.record != nil {
		r := s.record
		return fmt.Sprintf("{chainLength=%d burn=%d thin=%d chains=%d calcDIC=%t}",
			r.ChainLength, r.Burn, r.Thin, r.Chains, r.CalcDIC)
	}

	return s.preset
}
