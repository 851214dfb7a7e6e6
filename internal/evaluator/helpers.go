package evaluator

import (
	"fmt"

	"github.com/pettylang/petty/internal/config"
)

func newError(format string, a ...interface{}) *Error {
	return &Error{Kind: RuntimeFailure, Message: fmt.Sprintf(format, a...)}
}

func newKindError(kind ErrorKind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func newArityError(name string, want, got int) *Error {
	return newKindError(ArityMismatch, "%s() takes %d argument(s) but %d were given", name, want, got)
}

func newAttributeError(obj Object, key string) *Error {
	return newKindError(UnresolvedName, "'%s' object has no attribute '%s'", typeName(obj), key)
}

func newNotCallableError(obj Object) *Error {
	return newKindError(CapabilityMismatch, "'%s' object is not callable", typeName(obj))
}

// checkRepeat rejects a repetition whose result would exceed
// config.MaxSequenceLen.
func checkRepeat(size, n int64) *Error {
	if size <= 0 || n <= 0 {
		return nil
	}
	if size > config.MaxSequenceLen/n {
		return newKindError(NumericDomain, "repetition of %d elements %d times exceeds the maximum length %d",
			size, n, config.MaxSequenceLen)
	}
	return nil
}

func newOperandError(op string, left, right Object) *Error {
	symbol, ok := operatorSymbols[op]
	if !ok {
		symbol = op
	}
	return newKindError(CapabilityMismatch, "unsupported operand type(s) for %s: '%s' and '%s'",
		symbol, typeName(left), typeName(right))
}

// PushCall adds a call frame to the stack
func (e *Evaluator) PushCall(name string, file string, line, column int) {
	e.CallStack = append(e.CallStack, CallFrame{
		Name:   name,
		File:   file,
		Line:   line,
		Column: column,
	})
}

// PopCall removes the top call frame
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

// attachStack records the current call stack on err unless it already has one.
func (e *Evaluator) attachStack(err *Error) {
	if len(err.StackTrace) > 0 || len(e.CallStack) == 0 {
		return
	}
	err.StackTrace = make([]StackFrame, len(e.CallStack))
	for i, frame := range e.CallStack {
		err.StackTrace[i] = StackFrame{
			Name:   frame.Name,
			File:   frame.File,
			Line:   frame.Line,
			Column: frame.Column,
		}
	}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

// receiver downcasts the leading argument of a method call.
func receiver[T Object](args []Object, method string) (T, *Error) {
	var zero T
	if len(args) == 0 {
		return zero, newKindError(ArityMismatch, "%s() called without a receiver", method)
	}
	self, ok := args[0].(T)
	if !ok {
		return zero, newKindError(CapabilityMismatch, "%s() called on '%s'", method, typeName(args[0]))
	}
	return self, nil
}

// CallMethod looks key up on recv and calls it with recv as the leading
// argument. This is how every operator and protocol hook is dispatched.
func (e *Evaluator) CallMethod(recv Object, key string, args ...Object) Object {
	// Hooks on nested containers recurse through here without passing Eval.
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > e.maxDepth() {
		return newError("maximum recursion depth exceeded")
	}
	method := recv.GetItem(e, key)
	if isError(method) {
		return method
	}
	callArgs := make([]Object, 0, len(args)+1)
	callArgs = append(callArgs, recv)
	callArgs = append(callArgs, args...)
	return unwrapReturnValue(method.Call(e, callArgs))
}

// Truthy coerces obj through its __bool__ hook.
func (e *Evaluator) Truthy(obj Object) (bool, *Error) {
	if b, ok := obj.(*Boolean); ok {
		return b.Value, nil
	}
	res := e.CallMethod(obj, DunderBool)
	if err, ok := res.(*Error); ok {
		return false, err
	}
	b, ok := res.(*Boolean)
	if !ok {
		return false, newKindError(CapabilityMismatch, "__bool__ of '%s' returned '%s', expected Bool",
			typeName(obj), typeName(res))
	}
	return b.Value, nil
}

// Repr renders obj through its __repr__ hook.
func (e *Evaluator) Repr(obj Object) (string, *Error) {
	res := e.CallMethod(obj, DunderRepr)
	if err, ok := res.(*Error); ok {
		return "", err
	}
	s, ok := res.(*String)
	if !ok {
		return "", newKindError(CapabilityMismatch, "__repr__ of '%s' returned '%s', expected Str",
			typeName(obj), typeName(res))
	}
	return s.Value, nil
}

// Display is Repr except that strings print without quotes.
func (e *Evaluator) Display(obj Object) (string, *Error) {
	if s, ok := obj.(*String); ok {
		return s.Value, nil
	}
	return e.Repr(obj)
}

// toInt extracts an Int argument.
func toInt(obj Object, what string) (int64, *Error) {
	i, ok := obj.(*Integer)
	if !ok {
		return 0, newKindError(CapabilityMismatch, "%s must be Int, got '%s'", what, typeName(obj))
	}
	return i.Value, nil
}

// toMillis accepts Int or Float milliseconds.
func toMillis(obj Object, what string) (float64, *Error) {
	switch v := obj.(type) {
	case *Integer:
		return float64(v.Value), nil
	case *Float:
		return v.Value, nil
	}
	return 0, newKindError(CapabilityMismatch, "%s must be a number, got '%s'", what, typeName(obj))
}
