package evaluator

import (
	"github.com/pettylang/petty/internal/ast"
)

// evalBlockStatement runs statements in env until one produces an error or a
// control-flow signal, which is handed back unchanged. Blocks do not open a
// frame of their own.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = NULL
	for _, statement := range block.Statements {
		result = e.Eval(statement, env)
		if isSignal(result) {
			return result
		}
	}
	return result
}

// isSignal reports whether obj must stop the current statement sequence.
func isSignal(obj Object) bool {
	switch obj.(type) {
	case *Error, *ReturnValue, *BreakSignal, *ContinueSignal:
		return true
	}
	return false
}

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}

	if node.Target != nil {
		container := e.Eval(node.Target.Left, env)
		if isError(container) {
			return container
		}
		index := e.Eval(node.Target.Index, env)
		if isError(index) {
			return index
		}
		res := e.CallMethod(container, DunderSetIndex, index, val)
		if isError(res) {
			return res
		}
		return NULL
	}

	env.Set(node.Name.Value, val)
	return NULL
}

func (e *Evaluator) evalFunctionStatement(node *ast.FunctionStatement, env *Environment) Object {
	fn := &Function{
		Name:       node.Name.Value,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        env.Capture(),
		Line:       node.Token.Line,
		Column:     node.Token.Column,
	}
	env.Set(node.Name.Value, fn)
	return NULL
}

func (e *Evaluator) evalClassStatement(node *ast.ClassStatement, env *Environment) Object {
	fields := make([]string, len(node.Fields))
	for i, f := range node.Fields {
		fields[i] = f.Name.Value
	}
	env.Set(node.Name.Value, &Class{
		Name:    node.Name.Value,
		Fields:  fields,
		Methods: node.Methods,
	})
	return NULL
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.ReturnValue == nil {
		return &ReturnValue{Value: NULL}
	}
	val := e.Eval(node.ReturnValue, env)
	if isError(val) {
		return val
	}
	return &ReturnValue{Value: val}
}
