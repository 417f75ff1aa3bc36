// Package gen writes the programs of a set of units to disk, skipping
// outputs whose inputs have not changed since the last run.
package gen

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/loader"
	"github.com/funvibe/linesynth/internal/pipeline"
	"github.com/funvibe/linesynth/internal/synth"
)

// Status tells what happened to one output.
type Status int

const (
	StatusWritten Status = iota
	StatusUnchanged
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome for one unit.
type Result struct {
	Unit   loader.Unit
	Out    string
	Status Status
}

// TargetError reports the unit a generation failure belongs to.
type TargetError struct {
	Unit loader.Unit
	Err  error
}

func (e *TargetError) Error() string { return e.Unit.String() + ": " + e.Err.Error() }

func (e *TargetError) Unwrap() error { return e.Err }

// memoSize bounds the programs kept in memory between runs of one
// Generator, which matters in watch mode.
const memoSize = 256

// Generator writes synthesized programs.
type Generator struct {
	log     *zap.Logger
	root    string
	outDir  string
	jobs    int
	force   bool
	cache   *Cache
	memo    *lru.Cache[string, []byte]
	process *pipeline.Pipeline[job]
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithRoot sets the directory holding the .linesynth state directory and
// the base of relative output directories.
func WithRoot(dir string) Option {
	return func(g *Generator) { g.root = dir }
}

// WithOutDir sets the directory outputs of units without an explicit
// output file are written to.
func WithOutDir(dir string) Option {
	return func(g *Generator) { g.outDir = dir }
}

// WithJobs bounds the number of units processed concurrently.
func WithJobs(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.jobs = n
		}
	}
}

// WithForce rewrites every output, ignoring stamps.
func WithForce(force bool) Option {
	return func(g *Generator) { g.force = force }
}

// New creates a Generator.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		log:    zap.NewNop(),
		root:   ".",
		outDir: config.DefaultOutDir,
		jobs:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	memo, err := lru.New[string, []byte](memoSize)
	if err != nil {
		return nil, err
	}
	g.memo = memo
	g.cache = NewCache(g.root)
	g.process = pipeline.New[job](
		pipeline.ProcessorFunc[job](g.keyStage),
		pipeline.ProcessorFunc[job](g.synthStage),
		pipeline.ProcessorFunc[job](g.freshStage),
		pipeline.ProcessorFunc[job](g.writeStage),
		pipeline.ProcessorFunc[job](g.stampStage),
	)
	return g, nil
}

// Cache returns the stamp cache of the generator.
func (g *Generator) Cache() *Cache { return g.cache }

// Output returns the file the program of u is written to.
func (g *Generator) Output(u loader.Unit) string {
	if u.Out != "" {
		return u.Out
	}
	dir := g.outDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(g.root, dir)
	}
	return filepath.Join(dir, u.Target.Name, config.OutputFileNames[u.Dialect.Name()])
}

// job is the value flowing through the pipeline for one unit.
type job struct {
	unit    loader.Unit
	out     string
	key     string
	program []byte
	status  Status
}

// Generate writes the program of every unit. Units are processed
// concurrently; a failing unit does not stop the others. The returned
// error joins one TargetError per failed unit.
func (g *Generator) Generate(ctx context.Context, units []loader.Unit) ([]Result, error) {
	jobs := make([]job, len(units))
	owners := make(map[string]int)
	for i, u := range units {
		out := g.Output(u)
		if prev, ok := owners[out]; ok {
			return nil, fmt.Errorf("%s and %s both write %s; set distinct outputs in %s",
				units[prev], u, out, config.ProjectFileName)
		}
		owners[out] = i
		jobs[i] = job{unit: u, out: out}
	}

	errs := make([]error, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.jobs)
	for i := range jobs {
		eg.Go(func() error {
			if err := g.process.Run(egCtx, &jobs[i]); err != nil {
				errs[i] = &TargetError{Unit: jobs[i].unit, Err: err}
			}
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []Result
	var failed []error
	for i, j := range jobs {
		if errs[i] != nil {
			g.log.Error("Generation failed", zap.String("target", j.unit.String()), zap.Error(errs[i]))
			failed = append(failed, errs[i])
			continue
		}
		results = append(results, Result{Unit: j.unit, Out: j.out, Status: j.status})
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Out < results[b].Out })
	return results, errors.Join(failed...)
}

func (g *Generator) keyStage(_ context.Context, j *job) error {
	j.key = Key(j.unit)
	return nil
}

func (g *Generator) synthStage(_ context.Context, j *job) error {
	if program, ok := g.memo.Get(j.key); ok {
		j.program = program
		return nil
	}
	program, err := synth.New(j.unit.Dialect).SynthesizeSignature(j.unit.Target.Config, j.unit.Target.Sig)
	if err != nil {
		return err
	}
	g.memo.Add(j.key, program)
	j.program = program
	return nil
}

func (g *Generator) freshStage(_ context.Context, j *job) error {
	if g.force || !g.cache.Fresh(j.out, j.key) {
		return nil
	}
	j.status = StatusUnchanged
	g.log.Debug("Output up to date", zap.String("target", j.unit.String()), zap.String("out", j.out))
	return pipeline.Skip
}

func (g *Generator) writeStage(_ context.Context, j *job) error {
	if err := writeFile(j.out, j.program); err != nil {
		return fmt.Errorf("writing %s: %w", j.out, err)
	}
	j.status = StatusWritten
	g.log.Info("Wrote program", zap.String("target", j.unit.String()), zap.String("out", j.out))
	return nil
}

func (g *Generator) stampStage(_ context.Context, j *job) error {
	if err := g.cache.Store(j.out, j.key, j.program); err != nil {
		g.log.Warn("Failed to record stamp", zap.String("out", j.out), zap.Error(err))
	}
	return nil
}
