// Package fuzzgen turns fuzzer bytes into syntactically plausible programs.
package fuzzgen

import (
	"fmt"
	"strings"
)

// ByteSource draws choices from a byte slice; an exhausted source always
// yields 0.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

// Generator generates random programs.
type Generator struct {
	src   *ByteSource
	depth int
	vars  []string
}

const (
	MaxDepth      = 4
	MaxStatements = 6
)

func NewFromData(data []byte) *Generator {
	return &Generator{
		src:  &ByteSource{data: data},
		vars: []string{"x", "y", "z", "xs", "s"},
	}
}

func (g *Generator) GenerateProgram() string {
	var sb strings.Builder
	count := g.src.Intn(MaxStatements) + 1
	for i := 0; i < count; i++ {
		sb.WriteString(g.GenerateStatement())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (g *Generator) GenerateStatement() string {
	if g.depth > MaxDepth {
		return g.GenerateAssign()
	}
	g.depth++
	defer func() { g.depth-- }()

	switch g.src.Intn(12) {
	case 0, 1, 2:
		return g.GenerateAssign()
	case 3:
		return g.GenerateFunction()
	case 4:
		return g.GenerateClass()
	case 5:
		return g.GenerateIf()
	case 6:
		return fmt.Sprintf("for %s in %s %s", g.identifier(), g.GenerateExpression(), g.block(true))
	case 7:
		return fmt.Sprintf("while %s %s", g.GenerateExpression(), g.block(true))
	case 8:
		return fmt.Sprintf("%s[%s] = %s", g.identifier(), g.GenerateExpression(), g.GenerateExpression())
	case 9:
		return fmt.Sprintf("print(%s)", g.GenerateExpression())
	default:
		return g.GenerateExpression()
	}
}

func (g *Generator) GenerateAssign() string {
	return fmt.Sprintf("%s = %s", g.identifier(), g.GenerateExpression())
}

func (g *Generator) GenerateFunction() string {
	return fmt.Sprintf("fn f%d(%s) %s", g.src.Intn(3), g.params(), g.functionBody())
}

func (g *Generator) GenerateClass() string {
	name := fmt.Sprintf("C%d", g.src.Intn(3))
	if g.src.Intn(3) == 0 {
		return fmt.Sprintf("class %s(%s);", name, g.params())
	}
	var methods []string
	for i := g.src.Intn(3); i >= 0; i-- {
		method := []string{"get", "__add__", "__repr__", "__bool__", "__is_eq__", "__iter__", "__next__"}[g.src.Intn(7)]
		methods = append(methods, fmt.Sprintf("fn %s(self, o) %s", method, g.functionBody()))
	}
	return fmt.Sprintf("class %s(%s) { %s }", name, g.params(), strings.Join(methods, "\n"))
}

func (g *Generator) GenerateIf() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if %s %s", g.GenerateExpression(), g.block(false))
	if g.src.Intn(2) == 0 {
		fmt.Fprintf(&sb, " elif %s %s", g.GenerateExpression(), g.block(false))
	}
	if g.src.Intn(2) == 0 {
		fmt.Fprintf(&sb, " else %s", g.block(false))
	}
	return sb.String()
}

func (g *Generator) block(inLoop bool) string {
	var stmts []string
	for i := g.src.Intn(3); i >= 0; i-- {
		if inLoop && g.src.Intn(4) == 0 {
			stmts = append(stmts, []string{"break", "continue"}[g.src.Intn(2)])
			continue
		}
		stmts = append(stmts, g.GenerateStatement())
	}
	return "{\n" + strings.Join(stmts, "\n") + "\n}"
}

func (g *Generator) functionBody() string {
	body := g.block(false)
	return strings.TrimSuffix(body, "}") + "return " + g.GenerateExpression() + "\n}"
}

func (g *Generator) params() string {
	n := g.src.Intn(3)
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	return strings.Join(names, ", ")
}

func (g *Generator) identifier() string {
	return g.vars[g.src.Intn(len(g.vars))]
}

func (g *Generator) GenerateExpression() string {
	if g.depth > MaxDepth {
		return g.literal()
	}
	g.depth++
	defer func() { g.depth-- }()

	switch g.src.Intn(14) {
	case 0, 1:
		return g.literal()
	case 2, 3:
		return g.identifier()
	case 4, 5:
		op := []string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "&&", "||"}[g.src.Intn(13)]
		return fmt.Sprintf("%s %s %s", g.GenerateExpression(), op, g.GenerateExpression())
	case 6:
		return []string{"-", "!"}[g.src.Intn(2)] + g.GenerateExpression()
	case 7:
		return "(" + g.GenerateExpression() + ")"
	case 8:
		return fmt.Sprintf("[%s, %s]", g.GenerateExpression(), g.GenerateExpression())
	case 9:
		return fmt.Sprintf("%s[%s]", g.identifier(), g.GenerateExpression())
	case 10:
		method := []string{"len()", "sum()", "push(x)", "pop()", "get(0)", "unwrap()", "abs()", "split(\",\")"}[g.src.Intn(8)]
		return fmt.Sprintf("%s.%s", g.identifier(), method)
	case 11:
		fn := []string{"len", "range", "Some", "str", "repr", "f0", "f1", "C0", "C1"}[g.src.Intn(9)]
		return fmt.Sprintf("%s(%s)", fn, g.GenerateExpression())
	case 12:
		return fmt.Sprintf("fn(%s) { return %s }", g.params(), g.GenerateExpression())
	default:
		return fmt.Sprintf("%s * %s", g.literal(), g.literal())
	}
}

func (g *Generator) literal() string {
	switch g.src.Intn(9) {
	case 0:
		return fmt.Sprintf("%d", g.src.Intn(256))
	case 1:
		return []string{"9223372036854775807", "4294967296", "0", "-1"}[g.src.Intn(4)]
	case 2:
		return fmt.Sprintf("%d.%d", g.src.Intn(100), g.src.Intn(100))
	case 3:
		return fmt.Sprintf("%q", []string{"", "ab", "héllo", "a,b"}[g.src.Intn(4)])
	case 4:
		return []string{"true", "false"}[g.src.Intn(2)]
	case 5:
		return "null"
	case 6:
		return "None"
	case 7:
		return "[]"
	default:
		return fmt.Sprintf("range(%d)", g.src.Intn(50))
	}
}
