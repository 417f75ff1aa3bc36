package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/linesynth/internal/gen"
	"github.com/funvibe/linesynth/internal/loader"
	"github.com/funvibe/linesynth/internal/project"
)

type genFlags struct {
	out   string
	force bool
	clean bool
	watch bool
	jobs  int
}

// session is one configured gen invocation. In watch mode it runs again
// after every change.
type session struct {
	c       *cli
	flags   genFlags
	args    []string
	project *project.Config
	file    string
	root    string
	gen     *gen.Generator
	units   []loader.Unit
	results []gen.Result
}

func newGenCmd(c *cli) *cobra.Command {
	var flags genFlags
	cmd := &cobra.Command{
		Use:   "gen [patterns...]",
		Short: "Generate programs for every target of the project",
		Long: `Generate a program for every target listed in linesynth.yaml. Without a
project file, or when patterns are given, Go packages matching the patterns
are scanned for //linesynth:main directives and Rust files for #[pte]
attributes. Outputs whose inputs did not change are left alone.`,
		Example: `  linesynth gen
  linesynth gen ./solutions/...
  linesynth gen --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := newSession(c, flags, args)
			if err != nil {
				return err
			}
			if flags.clean {
				if err := s.gen.Cache().Clean(); err != nil {
					return err
				}
			}
			err = s.run(ctx)
			if !flags.watch {
				return err
			}
			if err != nil {
				c.logger.Error("Generation failed", zap.Error(err))
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			c.logger.Info("Watching for changes", zap.Int("targets", len(s.units)))
			w := gen.NewWatcher(c.logger, gen.DefaultDebounce, s.outputs()...)
			return w.Watch(ctx, s.watchDirs(), s.run)
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output directory, relative to the project file if there is one (default: project out, or LINESYNTH_OUT)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Rewrite every output")
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "Forget the stamps of earlier runs first")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Regenerate whenever a source changes")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Targets generated concurrently (default: GOMAXPROCS)")
	return cmd
}

func newSession(c *cli, flags genFlags, args []string) (*session, error) {
	s := &session{c: c, flags: flags, args: args, root: c.dir}

	if len(args) == 0 {
		path, err := project.FindConfig(c.dir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			cfg, err := project.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			c.logger.Debug("Using project file", zap.String("path", path))
			s.project = cfg
			s.file = path
			s.root = cfg.Dir
		}
	}

	outDir := flags.out
	if outDir == "" {
		outDir = c.env.OutDir
		if s.project != nil {
			outDir = s.project.Out
		}
	}
	g, err := gen.New(
		gen.WithLogger(c.logger),
		gen.WithRoot(s.root),
		gen.WithOutDir(outDir),
		gen.WithJobs(flags.jobs),
		gen.WithForce(flags.force),
	)
	if err != nil {
		return nil, err
	}
	s.gen = g
	return s, nil
}

// run loads the units and generates their programs.
func (s *session) run(ctx context.Context) error {
	// Re-read so edits to the project file apply in watch mode.
	if s.project != nil {
		cfg, err := project.LoadConfig(s.file)
		if err != nil {
			return err
		}
		if s.flags.out != "" {
			cfg.Out = s.flags.out
		}
		s.project = cfg
	}

	units, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.units = units

	results, err := s.gen.Generate(ctx, units)
	s.results = results
	written := 0
	for _, r := range results {
		if r.Status == gen.StatusWritten {
			written++
		}
	}
	s.c.logger.Info("Generation finished",
		zap.Int("targets", len(units)),
		zap.Int("written", written),
		zap.Int("unchanged", len(results)-written),
		zap.Int("failed", len(units)-len(results)))
	return err
}

func (s *session) load(ctx context.Context) ([]loader.Unit, error) {
	if s.project != nil {
		l := loader.New(loader.WithDir(s.root), loader.WithLogger(s.c.logger))
		return l.Project(ctx, s.project)
	}
	l := loader.New(
		loader.WithDir(s.c.dir),
		loader.WithRuntime(s.c.runtime),
		loader.WithLogger(s.c.logger),
	)
	return l.Scan(ctx, s.args...)
}

func (s *session) outputs() []string {
	outs := make([]string, 0, len(s.results))
	for _, r := range s.results {
		outs = append(outs, r.Out)
	}
	return outs
}

func (s *session) watchDirs() []string {
	dirs := []string{s.root}
	for _, u := range s.units {
		dirs = append(dirs, filepath.Dir(u.File))
	}
	return dirs
}
