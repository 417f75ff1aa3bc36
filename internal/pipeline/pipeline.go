// Package pipeline runs a value through an ordered list of stages.
package pipeline

import (
	"context"
	"errors"
)

// Processor is one stage of a pipeline. It updates v in place.
type Processor[T any] interface {
	Process(ctx context.Context, v *T) error
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc[T any] func(ctx context.Context, v *T) error

func (f ProcessorFunc[T]) Process(ctx context.Context, v *T) error { return f(ctx, v) }

type skip struct{}

func (skip) Error() string { return "pipeline: skip" }

// Skip ends the run of the current value successfully; later stages are
// not executed.
var Skip error = skip{}

// Pipeline represents a sequence of processing stages.
type Pipeline[T any] struct {
	processors []Processor[T]
}

func New[T any](processors ...Processor[T]) *Pipeline[T] {
	return &Pipeline[T]{processors: processors}
}

// Run executes the stages in order and stops at the first error or when
// the context is done. A stage returning Skip stops the run without an
// error.
func (p *Pipeline[T]) Run(ctx context.Context, v *T) error {
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := processor.Process(ctx, v); err != nil {
			if errors.Is(err, Skip) {
				return nil
			}
			return err
		}
	}
	return nil
}
