package backend_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/rs/zerolog"

	"github.com/pettylang/petty/internal/backend"
	"github.com/pettylang/petty/internal/config"
	"github.com/pettylang/petty/internal/fuzzgen"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
	"github.com/pettylang/petty/internal/prettyprinter"
)

type outcome struct {
	out string
	err string
}

// runCapped executes source with tight limits. ok is false when the run hit
// the wall clock, which makes the outcome unfit for comparison.
func runCapped(source string) (res outcome, ok bool) {
	cfg := config.Default()
	cfg.MaxDepth = 200
	cfg.MaxSteps = 20000

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out := &bytes.Buffer{}
	b := backend.NewTreeWalk(cfg, zerolog.Nop())
	b.Out = out
	b.FS = memfs.New()
	b.Context = ctx

	final := runPipeline(b, source)
	res.out = out.String()
	if len(final.Errors) > 0 {
		// Positions move when code is reformatted; the first line of the
		// message does not carry them.
		res.err = strings.SplitN(final.Errors[0].Message, "\n", 2)[0]
	}
	return res, ctx.Err() == nil && !strings.Contains(res.err, "execution cancelled")
}

// FuzzRoundTrip checks that formatting preserves behavior:
// run(format(parse(code))) == run(code).
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{9, 0, 4, 0, 1, 7})
	f.Add([]byte{3, 1, 12, 0, 2, 5, 9, 1, 0})
	f.Add([]byte("some seed bytes for the generator"))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 1000 {
			return
		}
		input := fuzzgen.NewFromData(data).GenerateProgram()

		parsed := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
			Run(&pipeline.PipelineContext{SourceCode: input})
		if len(parsed.Errors) > 0 {
			return
		}
		formatted := prettyprinter.Format(parsed.AstRoot)

		want, ok1 := runCapped(input)
		got, ok2 := runCapped(formatted)
		if !ok1 || !ok2 {
			return
		}
		if want != got {
			t.Errorf("behavior changed by formatting\noriginal:\n%s\nformatted:\n%s\nwant %+v\ngot  %+v",
				input, formatted, want, got)
		}
	})
}
