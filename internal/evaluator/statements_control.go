package evaluator

import (
	"github.com/pettylang/petty/internal/ast"
)

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	for _, branch := range node.Branches {
		cond := e.Eval(branch.Condition, env)
		if isError(cond) {
			return cond
		}
		ok, err := e.Truthy(cond)
		if err != nil {
			return err
		}
		if ok {
			return e.Eval(branch.Consequence, env)
		}
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return NULL
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		ok, err := e.Truthy(cond)
		if err != nil {
			return err
		}
		if !ok {
			return NULL
		}

		if res, stop := loopBody(e.Eval(node.Body, env)); stop {
			return res
		}
	}
}

// evalForStatement drives the iterator protocol: one __iter__ call on the
// source, then __next__ until it yields an absent Option.
func (e *Evaluator) evalForStatement(node *ast.ForStatement, env *Environment) Object {
	iterable := e.Eval(node.Iterable, env)
	if isError(iterable) {
		return iterable
	}
	iter := e.CallMethod(iterable, DunderIter)
	if isError(iter) {
		return iter
	}

	for {
		next := e.CallMethod(iter, DunderNext)
		if isError(next) {
			return next
		}
		opt, ok := next.(*Option)
		if !ok {
			return newKindError(CapabilityMismatch, "__next__ of '%s' returned '%s', expected Option",
				typeName(iter), typeName(next))
		}
		if !opt.Present {
			return NULL
		}
		env.Set(node.Item.Value, opt.Value)

		if res, stop := loopBody(e.Eval(node.Body, env)); stop {
			return res
		}
	}
}

// loopBody decides what a loop does with the result of one iteration.
// Break ends the loop normally; errors and returns leave it.
func loopBody(res Object) (Object, bool) {
	switch res.(type) {
	case *BreakSignal:
		return NULL, true
	case *Error, *ReturnValue:
		return res, true
	}
	return nil, false
}
