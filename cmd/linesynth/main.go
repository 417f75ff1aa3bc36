// Command linesynth turns a function declaration into a complete program
// that reads the function's arguments from standard input, calls it and
// prints the result.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/funvibe/linesynth/internal/config"
)

// cli holds the state shared by all commands.
type cli struct {
	env     config.Env
	logger  *zap.Logger
	verbose bool
	dir     string
	runtime string
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "linesynth",
		Short: "Generate stdin-driven programs from function declarations",
		Long: `linesynth reads a function declaration and a row configuration such as
"row = n" and emits a program that reads the function's arguments from
standard input line by line, calls it and prints the result.

Go functions are marked with a //linesynth:main directive, Rust functions
with a #[pte(...)] attribute.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.Load()
			if err != nil {
				return err
			}
			c.env = env
			if !cmd.Flags().Changed("runtime") {
				c.runtime = env.Runtime
			}
			if c.logger != nil {
				return nil
			}
			logger, err := newLogger(c.verbose || env.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging (or set "+config.EnvVerbose+")")
	root.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "Directory to work in")
	root.PersistentFlags().StringVar(&c.runtime, "runtime", config.DefaultRuntime, "Import path of the Go runtime package (or set "+config.EnvRuntime+")")

	root.AddCommand(newSynthCmd(c))
	root.AddCommand(newGenCmd(c))
	root.AddCommand(newRunCmd(c))
	return root
}

// newLogger logs JSON to stderr, or colored console lines when stderr is
// a terminal.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	if err := newRootCmd(&cli{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
