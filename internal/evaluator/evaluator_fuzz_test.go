package evaluator_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/evaluator"
	"github.com/pettylang/petty/internal/fuzzgen"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
)

// FuzzEvaluator runs arbitrary programs, and programs generated from the
// same bytes, under a step and depth cap. Runtime errors are fine; panics
// and hangs are not.
func FuzzEvaluator(f *testing.F) {
	f.Add(`"ab" * 9223372036854775807`)
	f.Add(`[1, 2] * 4611686018427387904`)
	f.Add("xs = [1]\nxs.push(xs)\nprint(xs)\nxs == [1, xs]")
	f.Add("range(9223372036854775807).sum()")
	f.Add("m = -9223372036854775807 - 1\nm.abs()\nm / -1\nm % -1")
	f.Add("fn r(n) { return r(n + 1) }\nr(0)")
	f.Add("while true { }")
	f.Add("class It(n) { fn __iter__(self) { return self } fn __next__(self) { return Some(1) } }\nfor i in It(0) { }")
	f.Add("class B(v) { fn __bool__(self) { return self } }\nif B(0) { }")
	f.Add(`"héllo"[9] + None.unwrap()`)

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 2000 {
			return
		}
		runBounded(t, input)
		runBounded(t, fuzzgen.NewFromData([]byte(input)).GenerateProgram())
	})
}

func runBounded(t *testing.T, input string) {
	ctx := &pipeline.PipelineContext{SourceCode: input}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		return
	}

	runCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	e := evaluator.New()
	e.Out = io.Discard
	e.FS = memfs.New()
	e.Context = runCtx
	e.MaxDepth = 300
	e.MaxSteps = 50000
	evaluator.RegisterBuiltins(e)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NotPanics(t, func() {
			_, _ = e.Run(ctx.AstRoot.(*ast.Program))
		}, "program:\n%s", input)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("program ignored its step limit:\n%s", input)
	}
}
