// Package backend runs a parsed program and reports the outcome to the
// pipeline.
package backend

import (
	"github.com/pettylang/petty/internal/evaluator"
	"github.com/pettylang/petty/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from the pipeline context and returns one
	// value per top-level statement.
	Run(ctx *pipeline.PipelineContext) ([]evaluator.Object, error)

	// Name returns the backend name for display
	Name() string
}
