package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/funvibe/linesynth/internal/config"
	"github.com/funvibe/linesynth/internal/runner"
)

func newRunCmd(c *cli) *cobra.Command {
	var flags declFlags
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "run file",
		Short: "Synthesize a Go program and run it on standard input",
		Long: `Synthesize the program for a Go declaration and interpret it in process.
The program reads standard input and writes standard output like the
generated binary would.`,
		Example: `  printf '3\n1 2 3\n' | linesynth run -c "row = in0" solve.go`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				return fmt.Errorf("standard input is the program's input; pass the declaration as a file")
			}
			p, err := c.resolve(cmd, args[0], flags)
			if err != nil {
				return err
			}
			if p.dialect.Name() != config.DialectGo {
				return fmt.Errorf("run supports %s declarations only, got %s", config.DialectGo, p.dialect.Name())
			}
			code, err := p.synthesize()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			c.logger.Debug("Running program", zap.String("func", p.sig.Name), zap.Duration("timeout", timeout))
			r := runner.New(runner.WithRuntime(c.runtime))
			return r.Run(ctx, code, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Stop the program after this long (0 means no limit)")
	return cmd
}
