// SPDX-License-Identifier: MIT

package assemble

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrorStructure is the residual/process error model declared by the model file.
type ErrorStructure int

const (
	// Resid: residual error only.
	Resid ErrorStructure = iota + 1
	// Process: process error only (MixSIR style, usable with N = 1).
	Process
	// Mult: residual error multiplied onto process error.
	Mult
)

// Model-file labels, matched exactly after trimming.
const (
	LabelResid   = "Residual only"
	LabelProcess = "Process only (MixSIR, for N = 1)"
	LabelMult    = "Residual * Process"
)

// ErrorStructureLine is the 1-based model-file line carrying the label.
const ErrorStructureLine = 8

// String returns the short lower-case name used in logs and metric labels.
func (e ErrorStructure) String() string {
	switch e {
	case Resid:
		return "resid"
	case Process:
		return "process"
	case Mult:
		return "mult"
	default:
		return fmt.Sprintf("ErrorStructure(%d)", int(e))
	}
}

// ParseErrorStructure maps a label to its ErrorStructure.
func ParseErrorStructure(label string) (ErrorStructure, error) {
	switch strings.TrimSpace(label) {
	case LabelResid:
		return Resid, nil
	case LabelProcess:
		return Process, nil
	case LabelMult:
		return Mult, nil
	default:
		return 0, fmt.Errorf("label %q: %w", label, ErrUnknownErrorStructure)
	}
}

// ReadErrorStructure reads line ErrorStructureLine of a model definition,
// splits it on ':' and parses the second field.
func ReadErrorStructure(r io.Reader) (ErrorStructure, error) {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		if line < ErrorStructureLine {
			continue
		}
		fields := strings.Split(sc.Text(), ":")
		if len(fields) < 2 {
			return 0, fmt.Errorf("line %d has no ':' field: %w", line, ErrUnknownErrorStructure)
		}

		return ParseErrorStructure(fields[1])
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}

	return 0, fmt.Errorf("model has %d lines, want at least %d: %w", line, ErrorStructureLine, ErrUnknownErrorStructure)
}

// ReadErrorStructureFile opens path and calls ReadErrorStructure.
func ReadErrorStructureFile(path string) (ErrorStructure, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	es, err := ReadErrorStructure(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return es, nil
}
