package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pettylang/petty/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  5,
	"-":  5,
	"*":  6,
	"/":  6,
	"%":  6,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Format renders a node back to canonical source text.
func Format(node ast.Node) string {
	p := NewCodePrinter()
	node.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	switch e := expr.(type) {
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		// All binary operators are left-associative.
		needParens := prec < parentPrec || (prec == parentPrec && isRight)
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + e.Operator + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}
	case *ast.PrefixExpression:
		p.write(e.Operator)
		p.printExpr(e.Right, 100, false)
	default:
		expr.Accept(p)
	}
}

func (p *CodePrinter) printArgs(args []ast.Expression) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(arg, 0, false)
	}
	p.write(")")
}

func (p *CodePrinter) printParams(params []*ast.Parameter) {
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name.Value)
		if param.Hint != nil {
			p.write(": " + param.Hint.Value)
		}
	}
	p.write(")")
}

// printPostfixOperand prints the left side of a call, index or member
// access, wrapping operator expressions so they keep binding tighter.
func (p *CodePrinter) printPostfixOperand(expr ast.Expression) {
	switch expr.(type) {
	case *ast.InfixExpression, *ast.PrefixExpression, *ast.FunctionLiteral:
		p.write("(")
		p.printExpr(expr, 0, false)
		p.write(")")
	default:
		p.printExpr(expr, 0, false)
	}
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		stmt.Accept(p)
		p.write("\n")
	}
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, 0, false)
}

func (p *CodePrinter) VisitAssignStatement(n *ast.AssignStatement) {
	if n.Target != nil {
		n.Target.Accept(p)
	} else {
		p.write(n.Name.Value)
	}
	p.write(" = ")
	p.printExpr(n.Value, 0, false)
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	if len(n.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	for _, stmt := range n.Statements {
		p.writeIndent()
		stmt.Accept(p)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitIfStatement(n *ast.IfStatement) {
	for i, branch := range n.Branches {
		if i == 0 {
			p.write("if ")
		} else {
			p.write(" elif ")
		}
		p.printExpr(branch.Condition, 0, false)
		p.write(" ")
		branch.Consequence.Accept(p)
	}
	if n.Alternative != nil {
		p.write(" else ")
		n.Alternative.Accept(p)
	}
}

func (p *CodePrinter) VisitWhileStatement(n *ast.WhileStatement) {
	p.write("while ")
	p.printExpr(n.Condition, 0, false)
	p.write(" ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	p.write("for " + n.Item.Value + " in ")
	p.printExpr(n.Iterable, 0, false)
	p.write(" ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitFunctionStatement(n *ast.FunctionStatement) {
	p.write("fn " + n.Name.Value)
	p.printParams(n.Parameters)
	if n.ReturnHint != nil {
		p.write(": " + n.ReturnHint.Value)
	}
	p.write(" ")
	n.Body.Accept(p)
}

func (p *CodePrinter) VisitClassStatement(n *ast.ClassStatement) {
	p.write("class " + n.Name.Value)
	p.printParams(n.Fields)
	if len(n.Methods) == 0 {
		p.write(";")
		return
	}
	p.write(" {\n")
	p.indent++
	for _, m := range n.Methods {
		p.writeIndent()
		m.Accept(p)
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.ReturnValue != nil {
		p.write(" ")
		p.printExpr(n.ReturnValue, 0, false)
	}
}

func (p *CodePrinter) VisitBreakStatement(n *ast.BreakStatement) {
	p.write("break")
}

func (p *CodePrinter) VisitContinueStatement(n *ast.ContinueStatement) {
	p.write("continue")
}

func (p *CodePrinter) VisitIdentifier(n *ast.Identifier) {
	p.write(n.Value)
}

func (p *CodePrinter) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	p.write(strconv.FormatInt(n.Value, 10))
}

func (p *CodePrinter) VisitFloatLiteral(n *ast.FloatLiteral) {
	s := strconv.FormatFloat(n.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	p.write(s)
}

func (p *CodePrinter) VisitStringLiteral(n *ast.StringLiteral) {
	p.write(strconv.Quote(n.Value))
}

func (p *CodePrinter) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	if n.Value {
		p.write("true")
	} else {
		p.write("false")
	}
}

func (p *CodePrinter) VisitNullLiteral(n *ast.NullLiteral) {
	p.write("null")
}

func (p *CodePrinter) VisitListLiteral(n *ast.ListLiteral) {
	p.write("[")
	for i, el := range n.Elements {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(el, 0, false)
	}
	p.write("]")
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitInfixExpression(n *ast.InfixExpression) {
	p.printExpr(n, 0, false)
}

func (p *CodePrinter) VisitCallExpression(n *ast.CallExpression) {
	p.printPostfixOperand(n.Function)
	p.printArgs(n.Arguments)
}

func (p *CodePrinter) VisitMemberExpression(n *ast.MemberExpression) {
	p.printPostfixOperand(n.Left)
	p.write("." + n.Member.Value)
	if n.IsCall {
		p.printArgs(n.Arguments)
	}
}

func (p *CodePrinter) VisitIndexExpression(n *ast.IndexExpression) {
	p.printPostfixOperand(n.Left)
	p.write("[")
	p.printExpr(n.Index, 0, false)
	p.write("]")
}

func (p *CodePrinter) VisitFunctionLiteral(n *ast.FunctionLiteral) {
	p.write("fn")
	p.printParams(n.Parameters)
	p.write(" ")
	n.Body.Accept(p)
}
