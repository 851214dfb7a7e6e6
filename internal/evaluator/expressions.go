package evaluator

import (
	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/token"
)

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	return newKindError(UnresolvedName, "name '%s' is not defined", node.Value)
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, env *Environment) Object {
	elements := e.evalExpressions(node.Elements, env)
	if len(elements) == 1 && isError(elements[0]) {
		return elements[0]
	}
	return NewList(elements)
}

// evalExpressions evaluates left to right. On error it returns a
// one-element slice holding the error.
func (e *Evaluator) evalExpressions(exps []ast.Expression, env *Environment) []Object {
	result := make([]Object, 0, len(exps))
	for _, exp := range exps {
		evaluated := e.Eval(exp, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}
	return result
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	dunder, ok := prefixDunders[node.Operator]
	if !ok {
		return newError("unknown operator: %s%s", node.Operator, typeName(right))
	}
	if right.GetItem(e, dunder).Type() == ERROR_OBJ {
		return newKindError(CapabilityMismatch, "bad operand type for unary %s: '%s'", node.Operator, typeName(right))
	}
	return e.CallMethod(right, dunder)
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	switch node.Operator {
	case "&&", "||":
		return e.evalLogical(node, env)
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "==":
		return e.Equals(left, right)
	case "!=":
		res := e.Equals(left, right)
		if isError(res) {
			return res
		}
		return nativeBoolToBooleanObject(res == FALSE)
	}

	dunder, ok := infixDunders[node.Operator]
	if !ok {
		return newError("unknown operator: %s %s %s", typeName(left), node.Operator, typeName(right))
	}
	method := left.GetItem(e, dunder)
	if err, ok := method.(*Error); ok {
		if err.Kind == UnresolvedName {
			return newOperandError(dunder, left, right)
		}
		return err
	}
	return unwrapReturnValue(method.Call(e, []Object{left, right}))
}

// evalLogical short-circuits: the right operand is evaluated only when the
// left one does not decide the result. The deciding operand is the value.
func (e *Evaluator) evalLogical(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	truthy, err := e.Truthy(left)
	if err != nil {
		return err
	}
	if (node.Operator == "&&") != truthy {
		return left
	}
	return e.Eval(node.Right, env)
}

// Equals compares two values. Values of different types, or instances of
// different classes, are unequal without consulting either side.
func (e *Evaluator) Equals(a, b Object) Object {
	if a.Type() != b.Type() {
		return FALSE
	}
	if ai, ok := a.(*Instance); ok && ai.Class != b.(*Instance).Class {
		return FALSE
	}
	res := e.CallMethod(a, DunderEq, b)
	if isError(res) {
		return res
	}
	bv, ok := res.(*Boolean)
	if !ok {
		return newKindError(CapabilityMismatch, "__is_eq__ of '%s' returned '%s', expected Bool",
			typeName(a), typeName(res))
	}
	return bv
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	fn := e.Eval(node.Function, env)
	if isError(fn) {
		return fn
	}
	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}
	return e.applyFunction(fn, args, node.Token)
}

// evalMemberExpression handles `a.b` and `a.b(...)`. A method call passes
// `a` as the leading argument, except for module members.
func (e *Evaluator) evalMemberExpression(node *ast.MemberExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	member := left.GetItem(e, node.Member.Value)
	if !node.IsCall || isError(member) {
		return member
	}

	args := e.evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}
	if _, isModule := left.(*Module); !isModule {
		args = append([]Object{left}, args...)
	}
	return e.applyFunction(member, args, node.Member.Token)
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isError(index) {
		return index
	}
	return e.CallMethod(left, DunderGetIndex, index)
}

// applyFunction calls fn with the call site on the call stack so that an
// error raised inside carries a trace.
func (e *Evaluator) applyFunction(fn Object, args []Object, tok token.Token) Object {
	e.PushCall(callableName(fn), e.CurrentFile, tok.Line, tok.Column)
	res := unwrapReturnValue(fn.Call(e, args))
	if err, ok := res.(*Error); ok {
		e.attachStack(err)
	}
	e.PopCall()
	return res
}

// Apply calls fn from host code.
func (e *Evaluator) Apply(fn Object, args ...Object) (Object, error) {
	res := e.applyFunction(fn, args, token.Token{Lexeme: callableName(fn)})
	if err, ok := res.(*Error); ok {
		return nil, err
	}
	return res, nil
}

func callableName(fn Object) string {
	switch fn := fn.(type) {
	case *Function:
		return fn.Name
	case *Builtin:
		return fn.Name
	case *Class:
		return fn.Name
	}
	return typeName(fn)
}
