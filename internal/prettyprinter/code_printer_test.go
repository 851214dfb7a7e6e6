package prettyprinter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
	"github.com/pettylang/petty/internal/prettyprinter"
)

func parse(t *testing.T, input string) ast.Node {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{SourceCode: input})
	require.Empty(t, ctx.Errors)
	return ctx.AstRoot
}

func TestFormat(t *testing.T) {
	input := `x=1+2*3
if x>3{print( (x-1)*2 )}else{y=[1,"a"]}
class P(a,b){fn s(self){return self.a}}
class E(v);
for i in range(2) { continue }`

	want := `x = 1 + 2 * 3
if x > 3 {
    print((x - 1) * 2)
} else {
    y = [1, "a"]
}
class P(a, b) {
    fn s(self) {
        return self.a
    }
}
class E(v);
for i in range(2) {
    continue
}
`
	assert.Equal(t, want, prettyprinter.Format(parse(t, input)))
}

func TestFormatIsStable(t *testing.T) {
	inputs := []string{
		"a = -(1 + 2) * 3 - (4 - 5)",
		"f = fn(x) { return x % 2 == 0 || !x }",
		"xs[0] = xs.get(1).unwrap()",
		"while n > 0 { n = n - 1 } ",
		"if a { b } elif c { d } else {}",
		"(fn() { return 1 })()",
	}
	for _, input := range inputs {
		once := prettyprinter.Format(parse(t, input))
		twice := prettyprinter.Format(parse(t, once))
		assert.Equal(t, once, twice, "input %q", input)
	}
}
