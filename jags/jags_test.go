// SPDX-License-Identifier: MIT

package jags_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/katalvlaran/isomix/assemble"
	"github.com/katalvlaran/isomix/bundle"
	"github.com/katalvlaran/isomix/jags"
	"github.com/katalvlaran/isomix/mixdata"
	"github.com/katalvlaran/isomix/ndarray"
	"github.com/katalvlaran/isomix/runconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestWriteData(t *testing.T) {
	t.Parallel()

	b := bundle.New()
	alpha, err := bundle.VectorOf([]float64{1, 1, 1})
	require.NoError(t, err)
	x, err := bundle.MatrixOf(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	require.NoError(t, err)
	scratch, err := ndarray.NewNA(1, 2, 1)
	require.NoError(t, err)
	cross, err := bundle.ArrayOf(scratch)
	require.NoError(t, err)

	require.NoError(t, b.Bind("N", bundle.IntOf(10)))
	require.NoError(t, b.Bind("alpha", alpha))
	require.NoError(t, b.Bind("X_iso", x))
	require.NoError(t, b.Bind("cross", cross))
	require.NoError(t, b.Bind("sd", bundle.ScalarOf(0.125)))

	var buf bytes.Buffer
	require.NoError(t, jags.WriteData(&buf, b))
	want := `"N" <- 10
"alpha" <- c(1, 1, 1)
"X_iso" <- structure(c(1, 3, 2, 4), .Dim = c(2, 2))
"cross" <- structure(c(NA, NA), .Dim = c(1, 2, 1))
"sd" <- 0.125
`
	assert.Equal(t, want, buf.String())

	bad := bundle.New()
	require.NoError(t, bad.Bind("x", bundle.ScalarOf(math.Inf(1))))
	assert.ErrorIs(t, jags.WriteData(&bytes.Buffer{}, bad), jags.ErrNonFinite)
}

func TestWriteInits(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, jags.WriteInits(&buf, assemble.Init{PGlobal: []float64{0.25, 0.75}, RNGSeed: 17}))
	want := `"p.global" <- c(0.25, 0.75)
".RNG.name" <- "base::Mersenne-Twister"
".RNG.seed" <- 17
`
	assert.Equal(t, want, buf.String())
}

func TestScript_Write(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := jags.Script{
		Model: "/m/model.txt", Data: "/w/data.R", Inits: "/w/chain1/inits.R",
		Burn: 500, Iter: 500, Thin: 2,
		Monitors: []string{"p.global", "loglik"},
		DIC:      true,
	}
	require.NoError(t, s.Write(&buf))
	want := `load dic
model in "/m/model.txt"
data in "/w/data.R"
compile, nchains(1)
parameters in "/w/chain1/inits.R"
initialize
update 500
monitor p.global, thin(2)
monitor loglik, thin(2)
monitor deviance, thin(2)
update 500
coda *, stem(CODA)
exit
`
	assert.Equal(t, want, buf.String())
}

func TestReadCODA(t *testing.T) {
	t.Parallel()

	index := "p.global[1] 1 3\np.global[2] 4 6\n"
	chain := "1 0.1\n2 0.2\n3 0.3\n1 0.9\n2 0.8\n3 0.7\n"
	got, err := jags.ReadCODA(strings.NewReader(index), strings.NewReader(chain))
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{
		"p.global[1]": {0.1, 0.2, 0.3},
		"p.global[2]": {0.9, 0.8, 0.7},
	}, got)

	_, err = jags.ReadCODA(strings.NewReader("x 1 7\n"), strings.NewReader(chain))
	assert.ErrorIs(t, err, jags.ErrCODA, "range past end")
	_, err = jags.ReadCODA(strings.NewReader(index), strings.NewReader("1 abc\n"))
	assert.ErrorIs(t, err, jags.ErrCODA, "bad value")
	_, err = jags.ReadCODA(strings.NewReader("x 1\n"), strings.NewReader(chain))
	assert.ErrorIs(t, err, jags.ErrCODA, "short index line")
}

func TestOutput_DrawsAndNodes(t *testing.T) {
	t.Parallel()

	o := &jags.Output{Chains: []jags.Chain{
		{"p.global[2]": {1, 2}, "p.global[1]": {3}, "p.globals": {9}},
		{"p.global[1]": {4}},
	}}
	assert.Equal(t, []float64{3, 4}, o.Draws("p.global[1]"))
	assert.Equal(t, []string{"p.global[1]", "p.global[2]"}, o.Nodes("p.global"))
	assert.Empty(t, o.Draws("missing"))
}

// job builds a 3-source, 1-tracer job with a short explicit run.
func job(t *testing.T, calcDIC bool) *assemble.Job {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "model.txt")
	lines := "#\n#\n#\n#\n#\n#\n#\n# Error structure: Residual * Process\nmodel{}\n"
	require.NoError(t, os.WriteFile(model, []byte(lines), 0o600))

	mu, _ := ndarray.FromSlice([]float64{-12, -8, -15}, 3, 1)
	sig2, _ := ndarray.FromSlice([]float64{1, 2, 1.5}, 3, 1)
	n, _ := ndarray.FromSlice([]float64{10, 10, 10}, 3)
	j, err := assemble.Build(&assemble.Input{
		Run:     runconfig.FromRun(runconfig.Run{ChainLength: 20, Burn: 10, Thin: 2, Chains: 2, CalcDIC: calcDIC}),
		Mixture: &mixdata.Mixture{DataIso: mat.NewDense(4, 1, []float64{-11, -10, -12, -9})},
		Source:  &mixdata.Source{NSources: 3, DataType: mixdata.Means, MU: mu, SIG2: sig2, NArray: n},
		Discrimination: &mixdata.Discrimination{
			Mu: mat.NewDense(3, 1, []float64{1, 1, 1}), Sig2: mat.NewDense(3, 1, []float64{0.3, 0.3, 0.3}),
		},
		ModelFile: model,
	}, assemble.WithSeed(3))
	require.NoError(t, err)

	return j
}

func fake(t *testing.T, extra ...string) []jags.RunnerOption {
	t.Helper()

	return []jags.RunnerOption{
		jags.WithBinary(os.Args[0]),
		jags.WithEnv(append([]string{envFake + "=1"}, extra...)...),
		jags.WithWorkDir(t.TempDir()),
	}
}

func TestRunner_Sample(t *testing.T) {
	t.Parallel()

	j := job(t, true)
	r := jags.NewRunner(fake(t)...)
	out, err := r.Sample(context.Background(), j)
	require.NoError(t, err)

	assert.Equal(t, j.ID, out.JobID)
	require.Len(t, out.Chains, 2)
	for _, c := range out.Chains {
		assert.Len(t, c["p.global"], 5)
		assert.Len(t, c["resid.prop"], 5)
		assert.Equal(t, []float64{100, 102, 100, 102, 100}, c["deviance"])
	}
	// Pooled deviance: six 100s and four 102s.
	assert.InDelta(t, 1.6/3, out.PD, 1e-9)
	assert.InDelta(t, 100.8+1.6/3, out.DIC, 1e-9)
}

func TestRunner_NoDIC(t *testing.T) {
	t.Parallel()

	out, err := jags.NewRunner(fake(t)...).Sample(context.Background(), job(t, false))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.DIC))
	assert.NotContains(t, out.Chains[0], "deviance")
}

func TestRunner_WorkDir(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	j := job(t, false)
	opts := append(fake(t), jags.WithWorkDir(work), jags.WithKeepFiles(true))
	_, err := jags.NewRunner(opts...).Sample(context.Background(), j)
	require.NoError(t, err)

	dir := filepath.Join(work, "isomix-"+j.ID.String())
	data, err := os.ReadFile(filepath.Join(dir, "data.R"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"X_iso" <- structure(c(`)
	assert.Contains(t, string(data), `"frac_sig2" <- `)
	inits, err := os.ReadFile(filepath.Join(dir, "chain2", "inits.R"))
	require.NoError(t, err)
	assert.Contains(t, string(inits), `".RNG.seed" <- `)

	clean := t.TempDir()
	opts = append(fake(t), jags.WithWorkDir(clean))
	_, err = jags.NewRunner(opts...).Sample(context.Background(), j)
	require.NoError(t, err)
	entries, err := os.ReadDir(clean)
	require.NoError(t, err)
	assert.Empty(t, entries, "job directory removed")
}

func TestRunner_ProcessFailure(t *testing.T) {
	t.Parallel()

	_, err := jags.NewRunner(fake(t, envFail+"=1")...).Sample(context.Background(), job(t, true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Compilation error")
	assert.Contains(t, err.Error(), "chain ")
}

func TestRunner_Cancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := jags.NewRunner(fake(t, envSleep+"=1")...).Sample(ctx, job(t, true))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 20*time.Second)
}

func TestRunner_ThroughAssembleRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	model := filepath.Join(dir, "model.txt")
	require.NoError(t, os.WriteFile(model, []byte("#\n#\n#\n#\n#\n#\n#\n# Error structure: Residual only\n"), 0o600))
	mu, _ := ndarray.FromSlice([]float64{-12, -8}, 2, 1)
	sig2, _ := ndarray.FromSlice([]float64{1, 2}, 2, 1)
	n, _ := ndarray.FromSlice([]float64{5, 5}, 2)
	in := &assemble.Input{
		Run:     runconfig.FromRun(runconfig.Run{ChainLength: 4, Burn: 2, Thin: 1, Chains: 1}),
		Mixture: &mixdata.Mixture{DataIso: mat.NewDense(2, 1, []float64{-10, -11})},
		Source:  &mixdata.Source{NSources: 2, DataType: mixdata.Means, MU: mu, SIG2: sig2, NArray: n},
		Discrimination: &mixdata.Discrimination{
			Mu: mat.NewDense(2, 1, []float64{0, 0}), Sig2: mat.NewDense(2, 1, []float64{0, 0}),
		},
		ModelFile: model,
	}

	out, err := assemble.Run[*jags.Output](context.Background(), jags.NewRunner(fake(t)...), in)
	require.NoError(t, err)
	require.Len(t, out.Chains, 1)
	assert.Equal(t, []float64{0, 1}, out.Chains[0]["p.global"])
}
