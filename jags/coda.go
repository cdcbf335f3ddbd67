// SPDX-License-Identifier: MIT

package jags

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrCODA indicates malformed CODA output.
var ErrCODA = errors.New("jags: malformed CODA output")

// ReadCODA pairs a CODA index ("name first last", 1-based line numbers)
// with its chain file ("iteration value") and returns the draws per
// monitored node.
func ReadCODA(index, chain io.Reader) (map[string][]float64, error) {
	var values []float64
	sc := bufio.NewScanner(chain)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("chain line %d: %w", line, ErrCODA)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("chain line %d: %v: %w", line, err, ErrCODA)
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := make(map[string][]float64)
	sc = bufio.NewScanner(index)
	line = 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("index line %d: %w", line, ErrCODA)
		}
		first, err1 := strconv.Atoi(fields[1])
		last, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil || first < 1 || last < first || last > len(values) {
			return nil, fmt.Errorf("index line %d range %s..%s of %d: %w", line, fields[1], fields[2], len(values), ErrCODA)
		}
		out[fields[0]] = append([]float64(nil), values[first-1:last]...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// ReadCODAFiles opens both files and calls ReadCODA.
func ReadCODAFiles(indexPath, chainPath string) (map[string][]float64, error) {
	idx, err := os.Open(indexPath)
	if err != nil {
		return nil, err
	}
	defer idx.Close()
	ch, err := os.Open(chainPath)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	return ReadCODA(idx, ch)
}
