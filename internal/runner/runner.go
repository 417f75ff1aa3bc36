// Package runner executes synthesized Go programs in process with the yaegi
// interpreter, feeding them explicit input and output streams.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/funvibe/linesynth/internal/config"
)

// entryName is the function of a generated program that holds the
// preamble, decoding and invocation.
const entryName = "run"

// Runner runs generated Go programs.
type Runner struct {
	runtime string
}

// Option configures a Runner.
type Option func(*Runner)

// WithRuntime sets the import path under which generated programs import
// the runtime package.
func WithRuntime(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.runtime = path
		}
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{runtime: config.DefaultRuntime}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run interprets src and calls its entry point with stdin and stdout. The
// program's own main function is not executed, so it never touches the
// process streams or exits.
func (r *Runner) Run(ctx context.Context, src []byte, stdin io.Reader, stdout io.Writer) error {
	code, err := disableMain(src)
	if err != nil {
		return err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return fmt.Errorf("loading stdlib symbols: %w", err)
	}
	if err := i.Use(Symbols(r.runtime)); err != nil {
		return fmt.Errorf("loading runtime symbols: %w", err)
	}
	if _, err := i.EvalWithContext(ctx, code); err != nil {
		return fmt.Errorf("evaluating program: %w", err)
	}
	v, err := i.EvalWithContext(ctx, "main."+entryName)
	if err != nil {
		return fmt.Errorf("program has no %s function: %w", entryName, err)
	}
	entry, ok := v.Interface().(func(io.Reader, io.Writer) error)
	if !ok {
		return fmt.Errorf("%s has type %s, want func(io.Reader, io.Writer) error", entryName, v.Type())
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("program panicked: %v", p)
			}
		}()
		done <- entry(stdin, stdout)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("program did not finish: %w", ctx.Err())
	}
}

// disableMain renames the main function of a program so that evaluating
// it does not run it.
func disableMain(src []byte) (string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "main.go", src, parser.ParseComments)
	if err != nil {
		return "", fmt.Errorf("parsing program: %w", err)
	}
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil && fn.Name.Name == "main" {
			fn.Name.Name = "linesynthMain"
		}
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return "", fmt.Errorf("printing program: %w", err)
	}
	return buf.String(), nil
}
