package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/diagnostics"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
	"github.com/pettylang/petty/internal/prettyprinter"
)

func parse(input string) *pipeline.PipelineContext {
	ctx := &pipeline.PipelineContext{SourceCode: input}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	return (&parser.ParserProcessor{}).Process(ctx)
}

func TestParser(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple_assignment", "a = 5", "a = 5\n"},
		{"infix_precedence", "a = 5 + 2 * 10", "a = 5 + 2 * 10\n"},
		{"grouping_kept", "a = (b + c) * -d", "a = (b + c) * -d\n"},
		{"left_assoc", "x = 1 - (2 - 3)", "x = 1 - (2 - 3)\n"},
		{"left_assoc_no_parens", "x = (1 - 2) - 3", "x = 1 - 2 - 3\n"},
		{"logic", "a && b || !c", "a && b || !c\n"},
		{"float", "x = 1.5", "x = 1.5\n"},
		{"string_escape", `print("hi\n")`, "print(\"hi\\n\")\n"},
		{"method_call", "a.f(1, 2)", "a.f(1, 2)\n"},
		{"member_chain", "a.b.c", "a.b.c\n"},
		{"call_chain", "f(1)(2)", "f(1)(2)\n"},
		{"index_assign", "xs[0] = 1;", "xs[0] = 1\n"},
		{"list_trailing_comma", "xs = [1, 2,]", "xs = [1, 2]\n"},
		{"semicolons_optional", "a = 1; b = 2\nc = 3", "a = 1\nb = 2\nc = 3\n"},
		{"newline_paren_starts_statement", "a = 1\n(b)", "a = 1\nb\n"},
		{"newline_minus_starts_statement", "x = 1\n-1", "x = 1\n-1\n"},
		{"newline_bracket_starts_statement", "x = y\n[1]", "x = y\n[1]\n"},
		{"trailing_operator_continues", "x = 1 +\n  2", "x = 1 + 2\n"},
		{"leading_dot_continues", "xs\n  .push(1)", "xs.push(1)\n"},
		{"function", "fn add(x: Int, y) { return x + y; }", "fn add(x: Int, y) {\n    return x + y\n}\n"},
		{"function_return_hint", "fn one(): Int { return 1 }", "fn one(): Int {\n    return 1\n}\n"},
		{"bare_return", "fn f() { return; }", "fn f() {\n    return\n}\n"},
		{"closure_literal", "f = fn(x) { return x }", "f = fn(x) {\n    return x\n}\n"},
		{"class", "class Point(x, y) { fn sum(self) { return self.x + self.y; } }",
			"class Point(x, y) {\n    fn sum(self) {\n        return self.x + self.y\n    }\n}\n"},
		{"class_no_body", "class Pair(a, b);", "class Pair(a, b);\n"},
		{"if_elif_else", "if a { 1 } elif b { 2 } else { 3 }",
			"if a {\n    1\n} elif b {\n    2\n} else {\n    3\n}\n"},
		{"for_colon", "for x: xs { break; }", "for x in xs {\n    break\n}\n"},
		{"for_in", "for x in range(3) { print(x) }", "for x in range(3) {\n    print(x)\n}\n"},
		{"while_continue", "while true { continue }", "while true {\n    continue\n}\n"},
		{"comments", "// line\na = /* inline */ 1", "a = 1\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := parse(tc.input)
			require.Empty(t, ctx.Errors)

			got := prettyprinter.Format(ctx.AstRoot)
			assert.Equal(t, tc.expected, got)

			// Printing is a fixed point.
			again := parse(got)
			require.Empty(t, again.Errors)
			assert.Equal(t, got, prettyprinter.Format(again.AstRoot))
		})
	}
}

func TestParserNodeShapes(t *testing.T) {
	ctx := parse("p.sum()")
	require.Empty(t, ctx.Errors)

	program := ctx.AstRoot.(*ast.Program)
	require.Len(t, program.Statements, 1)

	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	member, ok := stmt.Expression.(*ast.MemberExpression)
	require.True(t, ok)
	assert.True(t, member.IsCall)
	assert.Equal(t, "sum", member.Member.Value)
	assert.Empty(t, member.Arguments)
}

func TestParserErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"missing_value", "a = ", diagnostics.ErrP002},
		{"bad_target", "1 = 2", diagnostics.ErrP004},
		{"unclosed_block", "if a { b = 1", diagnostics.ErrP001},
		{"unclosed_list", "[1, 2", diagnostics.ErrP001},
		{"class_body_field", "class A { x }", diagnostics.ErrP001},
		{"duplicate_param", "fn f(a, a) {}", diagnostics.ErrP001},
		{"illegal_char", "a = 1 & 2", diagnostics.ErrL001},
		{"unterminated_string", `a = "abc`, diagnostics.ErrL001},
		{"exponent_literal", "x = 1.5e3", diagnostics.ErrP001},
		{"juxtaposed_expressions", "print(1) print(2)", diagnostics.ErrP001},
		{"juxtaposed_return", "fn f() { return 1 2 }", diagnostics.ErrP001},
		{"juxtaposed_break", "while true { break x }", diagnostics.ErrP001},
		{"juxtaposed_class", "class P(a) b", diagnostics.ErrP001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := parse(tc.input)
			require.NotEmpty(t, ctx.Errors)
			assert.Equal(t, tc.code, ctx.Errors[0].Code, ctx.Errors[0].Error())
		})
	}
}

func TestNewlineEndsExpression(t *testing.T) {
	ctx := parse("x = 1\n-1")
	require.Empty(t, ctx.Errors)
	program := ctx.AstRoot.(*ast.Program)
	require.Len(t, program.Statements, 2)

	assign, ok := program.Statements[0].(*ast.AssignStatement)
	require.True(t, ok)
	_, ok = assign.Value.(*ast.IntegerLiteral)
	assert.True(t, ok, "assigned value should be the literal alone")
	_, ok = program.Statements[1].(*ast.ExpressionStatement)
	assert.True(t, ok)
}

func TestJuxtapositionReportsPosition(t *testing.T) {
	ctx := parse("x = 1.5e3")
	require.Len(t, ctx.Errors, 1)
	assert.Equal(t, 1, ctx.Errors[0].Token.Line)
	assert.Equal(t, 8, ctx.Errors[0].Token.Column)
	assert.Contains(t, ctx.Errors[0].Message, "'e3'")
}

func TestParserDepthLimit(t *testing.T) {
	input := ""
	for i := 0; i < parser.MaxRecursionDepth+10; i++ {
		input += "("
	}
	input += "1"
	ctx := parse(input)
	require.NotEmpty(t, ctx.Errors)
	assert.Equal(t, diagnostics.ErrP005, ctx.Errors[0].Code)
}
