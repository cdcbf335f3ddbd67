// SPDX-License-Identifier: MIT

package jags

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/katalvlaran/isomix/assemble"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBinary is the JAGS executable looked up on PATH.
const DefaultBinary = "jags"

// stderrTail bounds how much process output is copied into an error.
const stderrTail = 2048

// Runner executes jobs with the JAGS binary. It implements
// assemble.Sampler[*Output].
type Runner struct {
	binary  string
	args    []string
	env     []string
	workDir string
	keep    bool
	logger  *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBinary sets the executable (default "jags").
func WithBinary(path string) RunnerOption { return func(r *Runner) { r.binary = path } }

// WithArgs sets arguments placed before the script path.
func WithArgs(args ...string) RunnerOption {
	return func(r *Runner) { r.args = append([]string(nil), args...) }
}

// WithEnv adds KEY=VALUE entries to the process environment.
func WithEnv(kv ...string) RunnerOption {
	return func(r *Runner) { r.env = append(r.env, kv...) }
}

// WithWorkDir sets the parent of per-job directories (default os.TempDir()).
func WithWorkDir(dir string) RunnerOption { return func(r *Runner) { r.workDir = dir } }

// WithKeepFiles keeps the job directory after the run.
func WithKeepFiles(keep bool) RunnerOption { return func(r *Runner) { r.keep = keep } }

// WithRunnerLogger sets the logger (default no-op).
func WithRunnerLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a Runner with defaults applied.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{binary: DefaultBinary, workDir: os.TempDir(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

var _ assemble.Sampler[*Output] = (*Runner)(nil)

// Sample runs every chain of job and collects the draws.
// Stage 1: job directory and shared data file.
// Stage 2: one process per chain under an errgroup.
// Stage 3: DIC from pooled deviance, when requested.
func (r *Runner) Sample(ctx context.Context, job *assemble.Job) (*Output, error) {
	dir := filepath.Join(r.workDir, "isomix-"+job.ID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if !r.keep {
		defer os.RemoveAll(dir)
	}
	log := r.logger.With(zap.String("job", job.ID.String()), zap.String("dir", dir))

	model, err := filepath.Abs(job.ModelFile)
	if err != nil {
		return nil, err
	}
	data := filepath.Join(dir, "data.R")
	if err = writeFile(data, func(f *os.File) error { return WriteData(f, job.Data) }); err != nil {
		return nil, err
	}

	out := &Output{JobID: job.ID, Chains: make([]Chain, job.Run.Chains)}
	g, gctx := errgroup.WithContext(ctx)
	for c := 0; c < job.Run.Chains; c++ {
		g.Go(func() error {
			chain, err := r.runChain(gctx, job, dir, model, data, c, log)
			if err != nil {
				return fmt.Errorf("chain %d: %w", c+1, err)
			}
			out.Chains[c] = chain

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	out.DIC, out.PD = math.NaN(), math.NaN()
	if job.Run.CalcDIC {
		out.computeDIC()
	}
	log.Info("jags finished", zap.Int("chains", job.Run.Chains), zap.Float64("dic", out.DIC))

	return out, nil
}

func (r *Runner) runChain(ctx context.Context, job *assemble.Job, dir, model, data string, c int, log *zap.Logger) (Chain, error) {
	chainDir := filepath.Join(dir, fmt.Sprintf("chain%d", c+1))
	if err := os.MkdirAll(chainDir, 0o755); err != nil {
		return nil, err
	}
	inits := filepath.Join(chainDir, "inits.R")
	if err := writeFile(inits, func(f *os.File) error { return WriteInits(f, job.Init(c)) }); err != nil {
		return nil, err
	}
	script := filepath.Join(chainDir, "script.cmd")
	s := Script{
		Model: model, Data: data, Inits: inits,
		Burn: job.Run.Burn, Iter: job.Run.ChainLength - job.Run.Burn, Thin: job.Run.Thin,
		Monitors: job.Params, DIC: job.Run.CalcDIC, Stem: CODAStem,
	}
	if err := writeFile(script, func(f *os.File) error { return s.Write(f) }); err != nil {
		return nil, err
	}

	args := append(append([]string(nil), r.args...), script)
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = chainDir
	cmd.Env = append(os.Environ(), r.env...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	log.Debug("chain started", zap.Int("chain", c+1))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", r.binary, err, tail(output.String()))
	}
	log.Debug("chain finished", zap.Int("chain", c+1), zap.Duration("elapsed", time.Since(start)))

	chain, err := ReadCODAFiles(
		filepath.Join(chainDir, CODAStem+"index.txt"),
		filepath.Join(chainDir, CODAStem+"chain1.txt"),
	)
	if err != nil {
		return nil, err
	}

	return Chain(chain), nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = "..." + s[len(s)-stderrTail:]
	}

	return s
}
