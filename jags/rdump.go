// SPDX-License-Identifier: MIT

package jags

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/isomix/assemble"
	"github.com/katalvlaran/isomix/bundle"
)

// ErrNonFinite indicates an infinite value, which R dump data cannot carry.
var ErrNonFinite = errors.New("jags: infinite value in data")

// RNG used for every chain's inits.
const RNGName = "base::Mersenne-Twister"

// WriteData writes every bundle entry, in binding order, as R dump text.
//
//	"N" <- 10
//	"alpha" <- c(1, 1, 1)
//	"X_iso" <- structure(c(...), .Dim = c(10, 2))
func WriteData(w io.Writer, b *bundle.Bundle) error {
	bw := bufio.NewWriter(w)
	err := b.Each(func(name string, v bundle.Value) error {
		return writeValue(bw, name, v)
	})
	if err != nil {
		return fmt.Errorf("WriteData: %w", err)
	}

	return bw.Flush()
}

// WriteInits writes the initial values of one chain.
func WriteInits(w io.Writer, init assemble.Init) error {
	bw := bufio.NewWriter(w)
	p, err := bundle.VectorOf(init.PGlobal)
	if err != nil {
		return fmt.Errorf("WriteInits: %w", err)
	}
	if err = writeValue(bw, bundle.PGlobal, p); err != nil {
		return fmt.Errorf("WriteInits: %w", err)
	}
	fmt.Fprintf(bw, "%q <- %q\n", ".RNG.name", RNGName)
	fmt.Fprintf(bw, "%q <- %d\n", ".RNG.seed", init.RNGSeed)

	return bw.Flush()
}

func writeValue(w *bufio.Writer, name string, v bundle.Value) error {
	var body string
	var err error
	switch v.Kind() {
	case bundle.Scalar:
		f, _ := v.Float()
		body, err = formatNumber(f)
	case bundle.Vector:
		body, err = vector(v.Data())
	default:
		var c string
		if c, err = vector(v.ColumnMajor()); err == nil {
			body = fmt.Sprintf("structure(%s, .Dim = %s)", c, dims(v.Shape()))
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	_, err = fmt.Fprintf(w, "%q <- %s\n", name, body)

	return err
}

func vector(xs []float64) (string, error) {
	var sb strings.Builder
	sb.WriteString("c(")
	for i, x := range xs {
		if i > 0 {
			sb.WriteString(", ")
		}
		s, err := formatNumber(x)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	sb.WriteString(")")

	return sb.String(), nil
}

func dims(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}

	return "c(" + strings.Join(parts, ", ") + ")"
}

func formatNumber(x float64) (string, error) {
	switch {
	case math.IsNaN(x):
		return "NA", nil
	case math.IsInf(x, 0):
		return "", ErrNonFinite
	default:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}
}
