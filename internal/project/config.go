// Package project loads linesynth.yaml, the file that lists the functions
// a project generates programs for.
//
// A minimal project file:
//
//	targets:
//	  - source: solve.go
//	    func: solve
//	    config: row = n
//
// Targets without a func select every annotated function of their source
// file. Relative paths are resolved against the directory of the project
// file.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/linesynth/internal/config"
)

// Config represents the top-level linesynth.yaml configuration.
type Config struct {
	// Runtime is the import path of the runtime package used by generated
	// Go programs. Defaults to config.DefaultRuntime.
	Runtime string `yaml:"runtime,omitempty"`

	// Out is the directory generated programs are written to, relative to
	// the project file. Defaults to "gen".
	Out string `yaml:"out,omitempty"`

	// Targets lists the functions to generate programs for.
	Targets []Target `yaml:"targets"`

	// Dir is the directory holding the project file.
	Dir string `yaml:"-"`
}

// Target is one source file entry of the project file.
type Target struct {
	// Source is the Go or Rust file holding the function.
	Source string `yaml:"source"`

	// Func names the function to synthesize. When empty, every function
	// of Source marked with a directive is a target.
	Func string `yaml:"func,omitempty"`

	// Config is the row configuration, e.g. "row = n". It overrides the
	// directive of the function, if any.
	Config string `yaml:"config,omitempty"`

	// Dialect is "go" or "rust". Derived from the extension of Source
	// when omitted.
	Dialect string `yaml:"dialect,omitempty"`

	// Out is the output file. Only valid together with Func; defaults to
	// <out>/<func>/main.go (or main.rs).
	Out string `yaml:"out,omitempty"`
}

// LoadConfig reads and parses a linesynth.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses linesynth.yaml content from bytes.
// The path argument locates relative paths and labels error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Dir = filepath.Dir(path)
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for linesynth.yaml starting from dir and walking up
// to parent directories. It returns an empty path and a nil error when no
// project file exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range []string{config.ProjectFileName, config.ProjectFileNameAlt} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Resolve returns p relative to the project directory, unless p is
// absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// OutputFile returns the file a program for function fn of target t is
// written to.
func (c *Config) OutputFile(t Target, fn string) string {
	if t.Out != "" {
		return c.Resolve(t.Out)
	}
	return c.Resolve(filepath.Join(c.Out, fn, config.OutputFileNames[t.Dialect]))
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("%s: no targets defined", path)
	}

	seenOuts := make(map[string]int)
	seenFuncs := make(map[string]int)

	for i, t := range c.Targets {
		if t.Source == "" {
			return fmt.Errorf("%s: targets[%d]: source is required", path, i)
		}

		dialect := t.Dialect
		if dialect == "" {
			d, ok := config.SourceFileExtensions[filepath.Ext(t.Source)]
			if !ok {
				return fmt.Errorf("%s: targets[%d] (%s): cannot derive dialect from extension %q; set dialect",
					path, i, t.Source, filepath.Ext(t.Source))
			}
			dialect = d
		}
		if _, ok := config.OutputFileNames[dialect]; !ok {
			return fmt.Errorf("%s: targets[%d] (%s): unknown dialect %q", path, i, t.Source, dialect)
		}

		if t.Func == "" {
			if t.Out != "" {
				return fmt.Errorf("%s: targets[%d] (%s): out requires func", path, i, t.Source)
			}
			if t.Config != "" {
				return fmt.Errorf("%s: targets[%d] (%s): config requires func", path, i, t.Source)
			}
			continue
		}

		key := t.Source + "#" + t.Func
		if prev, ok := seenFuncs[key]; ok {
			return fmt.Errorf("%s: targets[%d]: function %s of %s already listed in targets[%d]",
				path, i, t.Func, t.Source, prev)
		}
		seenFuncs[key] = i

		if t.Out != "" {
			out := filepath.Clean(t.Out)
			if prev, ok := seenOuts[out]; ok {
				return fmt.Errorf("%s: targets[%d]: out %q conflicts with targets[%d]", path, i, t.Out, prev)
			}
			seenOuts[out] = i
		}
	}

	return nil
}

// setDefaults fills in default values for omitted fields.
func (c *Config) setDefaults() {
	if c.Runtime == "" {
		c.Runtime = config.DefaultRuntime
	}
	if c.Out == "" {
		c.Out = config.DefaultOutDir
	}
	for i := range c.Targets {
		if c.Targets[i].Dialect == "" {
			c.Targets[i].Dialect = config.SourceFileExtensions[filepath.Ext(c.Targets[i].Source)]
		}
	}
}
