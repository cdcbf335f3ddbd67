// SPDX-License-Identifier: MIT

// Package bundle holds the model-data bundle handed to an MCMC sampler: an
// ordered mapping from symbolic data names ("X_iso", "Factor.1", "Cont.2")
// to tagged numeric values, plus the ordered list of parameters the sampler
// should report.
//
// Names are bound by indexed loops in the assemblers, never by building
// identifiers dynamically. A bundle is built once per invocation and frozen
// before it leaves the assembler; further mutation returns ErrFrozen.
package bundle

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate indicates a data name was bound twice.
	ErrDuplicate = errors.New("bundle: name already bound")

	// ErrFrozen indicates a mutation after Freeze.
	ErrFrozen = errors.New("bundle: bundle is frozen")

	// ErrEmptyName indicates an empty data or parameter name.
	ErrEmptyName = errors.New("bundle: empty name")

	// ErrInvalidValue indicates a zero Value was bound.
	ErrInvalidValue = errors.New("bundle: invalid value")
)

// Bundle is an insertion-ordered name → Value mapping plus a
// de-duplicated, insertion-ordered parameter list.
type Bundle struct {
	names  []string
	values map[string]Value

	params   []string
	paramSet map[string]struct{}

	frozen bool
}

// New returns an empty, mutable bundle.
func New() *Bundle {
	return &Bundle{
		values:   make(map[string]Value),
		paramSet: make(map[string]struct{}),
	}
}

// Bind adds name → v. Each name may be bound once.
func (b *Bundle) Bind(name string, v Value) error {
	switch {
	case b.frozen:
		return fmt.Errorf("Bind %q: %w", name, ErrFrozen)
	case name == "":
		return fmt.Errorf("Bind: %w", ErrEmptyName)
	case !v.Valid():
		return fmt.Errorf("Bind %q: %w", name, ErrInvalidValue)
	}
	if _, ok := b.values[name]; ok {
		return fmt.Errorf("Bind %q: %w", name, ErrDuplicate)
	}
	b.names = append(b.names, name)
	b.values[name] = v

	return nil
}

// Report appends parameter names to monitor. Names already present are
// skipped, so several assemblers may request the same parameter.
func (b *Bundle) Report(names ...string) error {
	if b.frozen {
		return fmt.Errorf("Report: %w", ErrFrozen)
	}
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("Report: %w", ErrEmptyName)
		}
		if _, ok := b.paramSet[n]; ok {
			continue
		}
		b.paramSet[n] = struct{}{}
		b.params = append(b.params, n)
	}

	return nil
}

// Freeze makes the bundle read-only.
func (b *Bundle) Freeze() { b.frozen = true }

// Frozen reports whether Freeze was called.
func (b *Bundle) Frozen() bool { return b.frozen }

// Names returns the bound data names in insertion order.
func (b *Bundle) Names() []string { return append([]string(nil), b.names...) }

// Params returns the parameter names in insertion order.
func (b *Bundle) Params() []string { return append([]string(nil), b.params...) }

// Len returns the number of bound data names.
func (b *Bundle) Len() int { return len(b.names) }

// Get returns the value bound to name.
func (b *Bundle) Get(name string) (Value, bool) {
	v, ok := b.values[name]

	return v, ok
}

// Has reports whether name is bound.
func (b *Bundle) Has(name string) bool {
	_, ok := b.values[name]

	return ok
}

// Each visits every binding in insertion order, stopping at the first error.
func (b *Bundle) Each(fn func(name string, v Value) error) error {
	for _, n := range b.names {
		if err := fn(n, b.values[n]); err != nil {
			return err
		}
	}

	return nil
}
