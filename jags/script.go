// SPDX-License-Identifier: MIT

package jags

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Script describes one single-chain JAGS run.
type Script struct {
	Model string // model file
	Data  string // data.R
	Inits string // inits.R

	Burn int // iterations discarded before monitoring
	Iter int // monitored iterations
	Thin int

	Monitors []string
	DIC      bool // also monitor deviance

	// Stem prefixes the CODA output files.
	Stem string
}

// CODAStem is the default Stem.
const CODAStem = "CODA"

// Write renders the command script.
func (s Script) Write(w io.Writer) error {
	stem := s.Stem
	if stem == "" {
		stem = CODAStem
	}
	bw := bufio.NewWriter(w)
	if s.DIC {
		fmt.Fprintln(bw, "load dic")
	}
	fmt.Fprintf(bw, "model in %s\n", quote(s.Model))
	fmt.Fprintf(bw, "data in %s\n", quote(s.Data))
	fmt.Fprintln(bw, "compile, nchains(1)")
	fmt.Fprintf(bw, "parameters in %s\n", quote(s.Inits))
	fmt.Fprintln(bw, "initialize")
	if s.Burn > 0 {
		fmt.Fprintf(bw, "update %d\n", s.Burn)
	}
	for _, m := range s.Monitors {
		fmt.Fprintf(bw, "monitor %s, thin(%d)\n", m, max(s.Thin, 1))
	}
	if s.DIC {
		fmt.Fprintf(bw, "monitor deviance, thin(%d)\n", max(s.Thin, 1))
	}
	fmt.Fprintf(bw, "update %d\n", s.Iter)
	fmt.Fprintf(bw, "coda *, stem(%s)\n", stem)
	fmt.Fprintln(bw, "exit")

	return bw.Flush()
}

func quote(path string) string {
	return `"` + strings.ReplaceAll(filepath.ToSlash(path), `"`, `\"`) + `"`
}
