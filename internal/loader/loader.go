// Package loader finds the functions a run of the generator works on,
// either from a project file or by scanning sources for directives.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/funvibe/linesynth/internal/backend"
	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/project"
	"github.com/funvibe/linesynth/internal/synth"
)

// Unit is one function to synthesize a program for.
type Unit struct {
	// File is the source file holding the function.
	File string
	// Dialect parses File and renders the program.
	Dialect synth.FileDialect
	// Target is the function and its row configuration.
	Target synth.Target
	// Runtime is the runtime import path the dialect was built with.
	Runtime string
	// Out is the output file. Empty when the generator should choose.
	Out string
}

func (u Unit) String() string {
	return fmt.Sprintf("%s:%d:%s", u.File, u.Target.Line, u.Target.Name)
}

// Loader locates synthesis targets.
type Loader struct {
	dir     string
	runtime string
	log     *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithDir sets the directory patterns are resolved against.
func WithDir(dir string) Option {
	return func(l *Loader) { l.dir = dir }
}

// WithRuntime sets the runtime import path used by Go programs.
func WithRuntime(path string) Option {
	return func(l *Loader) {
		if path != "" {
			l.runtime = path
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		dir:     ".",
		runtime: config.DefaultRuntime,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Scan finds every annotated function. Arguments ending in ".rs" name Rust
// files; the others are Go package patterns. Without arguments the Go
// packages under the directory and every Rust file below it are scanned.
func (l *Loader) Scan(ctx context.Context, args ...string) ([]Unit, error) {
	var patterns, rustFiles []string
	for _, arg := range args {
		if filepath.Ext(arg) == ".rs" {
			if !filepath.IsAbs(arg) {
				arg = filepath.Join(l.dir, arg)
			}
			rustFiles = append(rustFiles, arg)
		} else {
			patterns = append(patterns, arg)
		}
	}

	scanGo := len(patterns) > 0
	if len(args) == 0 {
		hasGo, found, err := l.walk(ctx)
		if err != nil {
			return nil, err
		}
		scanGo = hasGo
		rustFiles = found
	}

	var units []Unit
	if scanGo {
		goUnits, err := l.Packages(ctx, patterns...)
		if err != nil {
			return nil, err
		}
		units = append(units, goUnits...)
	}
	for _, file := range rustFiles {
		fileUnits, err := l.annotated(config.DialectRust, file)
		if err != nil {
			return nil, err
		}
		units = append(units, fileUnits...)
	}
	return units, nil
}

// Packages loads the Go packages matching patterns and returns their
// annotated functions. Files excluded by build constraints are scanned as
// well, so targets kept behind "//go:build ignore" are found.
func (l *Loader) Packages(ctx context.Context, patterns ...string) ([]Unit, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles,
		Dir:     l.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var errs []string
	var files []string
	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		// A directory holding only ignored files is reported as an error
		// but still lists them.
		if len(pkg.GoFiles) > 0 || len(pkg.IgnoredFiles) == 0 {
			for _, e := range pkg.Errors {
				errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
			}
		}
		n := 0
		for _, f := range slices.Concat(pkg.GoFiles, pkg.IgnoredFiles) {
			if filepath.Ext(f) != ".go" || strings.HasSuffix(f, "_test.go") || seen[f] {
				continue
			}
			seen[f] = true
			files = append(files, f)
			n++
		}
		l.log.Debug("Loaded package", zap.String("pkg", pkg.PkgPath), zap.Int("files", n))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors:\n  %s", strings.Join(errs, "\n  "))
	}

	sort.Strings(files)
	var units []Unit
	for _, f := range files {
		fileUnits, err := l.annotated(config.DialectGo, f)
		if err != nil {
			return nil, err
		}
		units = append(units, fileUnits...)
	}
	return units, nil
}

// Project returns the units listed in a project file.
func (l *Loader) Project(ctx context.Context, cfg *project.Config) ([]Unit, error) {
	var units []Unit
	for i, t := range cfg.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := cfg.Resolve(t.Source)
		d, err := backend.ForName(t.Dialect, backend.Options{Runtime: cfg.Runtime})
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}

		if t.Func == "" {
			targets, err := d.Annotated(file, src)
			if err != nil {
				return nil, fmt.Errorf("targets[%d]: %w", i, err)
			}
			if len(targets) == 0 {
				l.log.Warn("No annotated functions", zap.String("file", file))
			}
			for _, tg := range targets {
				units = append(units, Unit{File: file, Dialect: d, Target: tg, Runtime: cfg.Runtime, Out: cfg.OutputFile(t, tg.Name)})
			}
			continue
		}

		tg, err := d.Lookup(file, src, t.Func)
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if t.Config != "" {
			tg.Config = t.Config
		}
		units = append(units, Unit{File: file, Dialect: d, Target: tg, Runtime: cfg.Runtime, Out: cfg.OutputFile(t, tg.Name)})
	}
	return units, nil
}

func (l *Loader) annotated(dialect, file string) ([]Unit, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	if !bytes.Contains(src, marker(dialect)) {
		return nil, nil
	}
	d, err := backend.ForName(dialect, backend.Options{Runtime: l.runtime})
	if err != nil {
		return nil, err
	}
	targets, err := d.Annotated(file, src)
	if err != nil {
		return nil, err
	}
	units := make([]Unit, 0, len(targets))
	for _, tg := range targets {
		l.log.Debug("Found target",
			zap.String("file", file),
			zap.Int("line", tg.Line),
			zap.String("func", tg.Name),
			zap.String("config", tg.Config))
		units = append(units, Unit{File: file, Dialect: d, Target: tg, Runtime: l.runtime})
	}
	return units, nil
}

// marker is a substring every file with a target contains.
func marker(dialect string) []byte {
	if dialect == config.DialectGo {
		return []byte(config.GoDirective)
	}
	return []byte(config.RustAttribute)
}

// skipDirs are never descended into when looking for Rust files.
var skipDirs = map[string]bool{
	"target":       true,
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
}

// walk lists the Rust files below the directory and reports whether it
// holds any Go file.
func (l *Loader) walk(ctx context.Context) (hasGo bool, rust []string, err error) {
	err = filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != l.dir && (skipDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".go":
			hasGo = true
		case ".rs":
			rust = append(rust, path)
		}
		return nil
	})
	if err != nil {
		return false, nil, fmt.Errorf("scanning %s: %w", l.dir, err)
	}
	return hasGo, rust, nil
}
