package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/linesynth/internal/backend"
	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/synth"
)

const stdinName = "<stdin>"

// declFlags select a declaration and its configuration.
type declFlags struct {
	config  string
	dialect string
	fn      string
}

func (f *declFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", `Row configuration, e.g. "row = n" (overrides a directive)`)
	cmd.Flags().StringVarP(&f.dialect, "dialect", "d", "", "Dialect: go or rust (default: from the file extension, or "+config.EnvDialect+")")
	cmd.Flags().StringVarP(&f.fn, "func", "f", "", "Function to use when the file holds several")
}

// program is a declaration ready to synthesize.
type program struct {
	dialect synth.FileDialect
	config  string
	sig     *synth.Signature
}

func (p program) synthesize() ([]byte, error) {
	return synth.New(p.dialect).SynthesizeSignature(p.config, p.sig)
}

// resolve reads the declaration named by arg ("" or "-" for stdin). A
// file whose single annotated function is the target supplies its own
// configuration; a --config flag overrides it.
func (c *cli) resolve(cmd *cobra.Command, arg string, f declFlags) (program, error) {
	filename := arg
	var src []byte
	var err error
	if arg == "" || arg == "-" {
		filename = stdinName
		src, err = io.ReadAll(cmd.InOrStdin())
	} else {
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(c.dir, filename)
		}
		src, err = os.ReadFile(filename)
	}
	if err != nil {
		return program{}, err
	}

	name := f.dialect
	if name == "" {
		name = config.SourceFileExtensions[filepath.Ext(filename)]
	}
	if name == "" {
		name = c.env.Dialect
	}
	d, err := backend.ForName(name, backend.Options{Runtime: c.runtime})
	if err != nil {
		return program{}, err
	}

	overridden := cmd.Flags().Changed("config")
	pick := func(tg synth.Target) program {
		p := program{dialect: d, config: tg.Config, sig: tg.Sig}
		if overridden {
			p.config = f.config
		}
		c.logger.Debug("Selected function",
			zap.String("file", filename),
			zap.String("func", tg.Name),
			zap.String("config", p.config))
		return p
	}

	if f.fn != "" {
		tg, err := d.Lookup(filename, src, f.fn)
		if err != nil {
			return program{}, err
		}
		return pick(tg), nil
	}

	targets, err := d.Annotated(filename, src)
	if err != nil {
		return program{}, err
	}
	switch len(targets) {
	case 0:
		sig, err := d.ParseDecl(src)
		if err != nil {
			return program{}, err
		}
		return program{dialect: d, config: f.config, sig: sig}, nil
	case 1:
		return pick(targets[0]), nil
	default:
		names := make([]string, len(targets))
		for i, tg := range targets {
			names[i] = tg.Name
		}
		return program{}, fmt.Errorf("%s has %d annotated functions (%s); pick one with --func",
			filename, len(targets), strings.Join(names, ", "))
	}
}

func newSynthCmd(c *cli) *cobra.Command {
	var flags declFlags
	var out string
	cmd := &cobra.Command{
		Use:   "synth [file|-]",
		Short: "Print the program for one declaration",
		Long: `Synthesize the program for one function declaration read from a file or
standard input and print it.`,
		Example: `  echo 'func solve(n int, xs []int) int { return n }' | linesynth synth -c "row = n"
  linesynth synth solve.rs`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			p, err := c.resolve(cmd, arg, flags)
			if err != nil {
				return err
			}
			code, err := p.synthesize()
			if err != nil {
				return err
			}
			if out != "" {
				return os.WriteFile(out, code, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(code)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the program to a file instead of stdout")
	return cmd
}
