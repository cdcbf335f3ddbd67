// SPDX-License-Identifier: MIT

package assemble

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distmv"
)

// Init is the starting state of one chain.
type Init struct {
	Chain int

	// PGlobal is a point on the simplex drawn from Dirichlet(alpha).
	PGlobal []float64

	// RNGSeed seeds the sampler's own generator for this chain (>= 1).
	RNGSeed int
}

// InitFunc returns the initial values of chain c (0-based).
type InitFunc func(c int) Init

// Init draws the initial values of chain c. The draw depends only on the
// job seed and c, so chains are independent and repeatable.
func (j *Job) Init(c int) Init {
	r := rand.New(rand.NewPCG(j.seed, uint64(c)))
	seed := 1 + r.IntN(math.MaxInt32-1)
	d := distmv.NewDirichlet(j.Alpha, r)

	return Init{Chain: c, PGlobal: d.Rand(nil), RNGSeed: seed}
}

// InitFunc returns j.Init as a generator.
func (j *Job) InitFunc() InitFunc { return j.Init }

// Inits returns one Init per configured chain.
func (j *Job) Inits() []Init {
	out := make([]Init, j.Run.Chains)
	for c := range out {
		out[c] = j.Init(c)
	}

	return out
}
