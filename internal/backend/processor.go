package backend

import (
	"errors"
	"strconv"
	"strings"

	"github.com/pettylang/petty/internal/diagnostics"
	"github.com/pettylang/petty/internal/evaluator"
	"github.com/pettylang/petty/internal/pipeline"
	"github.com/pettylang/petty/internal/token"
)

// ExecutionProcessor is the pipeline stage that runs a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	results, err := p.Backend.Run(ctx)
	for _, res := range results {
		ctx.Results = append(ctx.Results, res)
	}
	if err == nil {
		return ctx
	}

	var rtErr *evaluator.Error
	if errors.As(err, &rtErr) {
		p.handleEvaluatorError(ctx, rtErr)
	} else {
		p.handleError(ctx, err)
	}
	return ctx
}

func (p *ExecutionProcessor) handleError(ctx *pipeline.PipelineContext, err error) {
	msg := strings.TrimPrefix(err.Error(), "runtime error: ")
	diag := diagnostics.NewError(diagnostics.ErrR001, token.Token{}, "%s", msg)
	diag.File = ctx.FilePath
	ctx.Errors = append(ctx.Errors, diag)
}

func (p *ExecutionProcessor) handleEvaluatorError(ctx *pipeline.PipelineContext, err *evaluator.Error) {
	tok := token.Token{Line: err.Line, Column: err.Column}
	errMsg := string(err.Kind) + ": " + err.Message

	// Add stack trace if available
	if len(err.StackTrace) > 0 {
		errMsg += "\nStack trace:"
		for i := len(err.StackTrace) - 1; i >= 0; i-- {
			frame := err.StackTrace[i]
			file := frame.File
			if file == "" {
				file = ctx.FilePath
			}
			errMsg += "\n  at " + file + ":" + strconv.Itoa(frame.Line) + " (called " + frame.Name + ")"
		}
	}

	diag := diagnostics.NewError(diagnostics.ErrR001, tok, "%s", errMsg)
	diag.File = ctx.FilePath
	ctx.Errors = append(ctx.Errors, diag)
}
