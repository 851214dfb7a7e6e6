package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/config"
	"github.com/pettylang/petty/internal/evaluator"
	"github.com/pettylang/petty/internal/pipeline"
)

// TreeWalkBackend runs programs on the tree-walking evaluator.
type TreeWalkBackend struct {
	Config *config.Config
	Logger zerolog.Logger

	// Context cancels a running program. Nil means never.
	Context context.Context
	// Out receives print output. Nil keeps the evaluator's default.
	Out io.Writer
	// FS backs std.fs. Nil means the host filesystem rooted at
	// Config.FSRoot.
	FS billy.Filesystem
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk(cfg *config.Config, logger zerolog.Logger) *TreeWalkBackend {
	if cfg == nil {
		cfg = config.Default()
	}
	return &TreeWalkBackend{Config: cfg, Logger: logger}
}

// Run executes the program using tree-walk interpretation
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) ([]evaluator.Object, error) {
	if ctx.AstRoot == nil {
		return nil, errors.New("no AST to execute")
	}
	if len(ctx.Errors) > 0 {
		return nil, ctx.Errors[0]
	}
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok {
		return nil, fmt.Errorf("AST root is not a Program: %T", ctx.AstRoot)
	}

	eval := b.NewEvaluator(ctx.FilePath)
	b.Logger.Debug().
		Str("file", eval.CurrentFile).
		Int("statements", len(program.Statements)).
		Msg("running program")

	results, err := eval.Run(program)
	if err != nil {
		return results, err
	}
	b.Logger.Debug().Int("results", len(results)).Msg("program finished")
	return results, nil
}

// NewEvaluator builds an evaluator configured from b with the builtins
// registered.
func (b *TreeWalkBackend) NewEvaluator(filePath string) *evaluator.Evaluator {
	eval := evaluator.New()
	eval.Logger = b.Logger
	if b.Context != nil {
		eval.Context = b.Context
	}
	if b.Out != nil {
		eval.Out = b.Out
	}
	if b.Config != nil {
		eval.MaxDepth = b.Config.MaxDepth
		eval.MaxSteps = int64(b.Config.MaxSteps)
	}
	eval.FS = b.filesystem(filePath)
	if filePath != "" {
		eval.CurrentFile = filePath
	}

	evaluator.RegisterBuiltins(eval)
	return eval
}

// filesystem resolves fs_root against the script's directory.
func (b *TreeWalkBackend) filesystem(filePath string) billy.Filesystem {
	if b.FS != nil {
		return b.FS
	}
	root := "."
	if b.Config != nil && b.Config.FSRoot != "" {
		root = b.Config.FSRoot
		if !filepath.IsAbs(root) && filePath != "" {
			root = filepath.Join(filepath.Dir(filePath), root)
		}
	}
	return osfs.New(root)
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
