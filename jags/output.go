// SPDX-License-Identifier: MIT

package jags

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Deviance is the node JAGS reports when DIC is requested.
const Deviance = "deviance"

// Chain holds the draws of one chain, keyed by node ("p.global[2]").
type Chain map[string][]float64

// Output is the result of one JAGS run.
type Output struct {
	JobID  uuid.UUID
	Chains []Chain

	// DIC = mean(deviance) + var(deviance)/2 and PD = var(deviance)/2,
	// pooled over chains. Both are NaN when deviance was not monitored.
	DIC float64
	PD  float64
}

// Draws returns the draws of node pooled over chains in chain order.
func (o *Output) Draws(node string) []float64 {
	var out []float64
	for _, c := range o.Chains {
		out = append(out, c[node]...)
	}

	return out
}

// Nodes returns every node whose name is param or param[...], sorted.
func (o *Output) Nodes(param string) []string {
	seen := make(map[string]struct{})
	for _, c := range o.Chains {
		for node := range c {
			if node == param || strings.HasPrefix(node, param+"[") {
				seen[node] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for node := range seen {
		out = append(out, node)
	}
	sort.Strings(out)

	return out
}

// computeDIC fills DIC and PD from the pooled deviance draws.
func (o *Output) computeDIC() {
	o.DIC, o.PD = math.NaN(), math.NaN()
	dev := o.Draws(Deviance)
	if len(dev) < 2 {
		return
	}
	mean, variance := stat.MeanVariance(dev, nil)
	o.PD = variance / 2
	o.DIC = mean + o.PD
}
