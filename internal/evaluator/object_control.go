package evaluator

import (
	"fmt"
	"strings"
)

// ErrorKind classifies runtime failures. Every kind aborts evaluation.
type ErrorKind string

const (
	UnresolvedName     ErrorKind = "UnresolvedName"
	ArityMismatch      ErrorKind = "ArityMismatch"
	CapabilityMismatch ErrorKind = "CapabilityMismatch"
	NumericDomain      ErrorKind = "NumericDomain"
	ControlFlow        ErrorKind = "ControlFlow"
	AssertionFailed    ErrorKind = "AssertionFailed"
	RuntimeFailure     ErrorKind = "Runtime"
)

// Error is a runtime error travelling through evaluation as a value.
type Error struct {
	Kind       ErrorKind
	Message    string
	Line       int
	Column     int
	StackTrace []StackFrame
}

// StackFrame for error stack traces
type StackFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	var result string
	if e.Line > 0 {
		result = fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Column, e.Message)
	} else {
		result = "ERROR: " + e.Message
	}

	// Shows call chain from innermost (most recent) to outermost
	// Format: at <caller>:<line> (called <callee>)
	if len(e.StackTrace) > 0 {
		result += "\nStack trace:"
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			frame := e.StackTrace[i]
			var callerName string
			if i > 0 {
				callerName = e.StackTrace[i-1].Name
			} else {
				callerName = frame.File
				if idx := strings.LastIndex(callerName, "."); idx > 0 {
					callerName = callerName[:idx]
				}
			}
			result += fmt.Sprintf("\n  at %s:%d (called %s)", callerName, frame.Line, frame.Name)
		}
	}

	return result
}

// Error makes *Error usable as a Go error once it leaves the evaluator.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func (e *Error) GetItem(ev *Evaluator, key string) Object { return e }
func (e *Error) Call(ev *Evaluator, args []Object) Object  { return e }

// ReturnValue wraps a value that is being returned prematurely
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) GetItem(e *Evaluator, key string) Object {
	return rv.Value.GetItem(e, key)
}
func (rv *ReturnValue) Call(e *Evaluator, args []Object) Object {
	return rv.Value.Call(e, args)
}

// BreakSignal stops the innermost enclosing loop.
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string  { return "Break" }
func (bs *BreakSignal) GetItem(e *Evaluator, key string) Object {
	return newKindError(ControlFlow, "'break' outside loop")
}
func (bs *BreakSignal) Call(e *Evaluator, args []Object) Object {
	return newKindError(ControlFlow, "'break' outside loop")
}

// ContinueSignal skips to the next iteration of the innermost loop.
type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "Continue" }
func (cs *ContinueSignal) GetItem(e *Evaluator, key string) Object {
	return newKindError(ControlFlow, "'continue' outside loop")
}
func (cs *ContinueSignal) Call(e *Evaluator, args []Object) Object {
	return newKindError(ControlFlow, "'continue' outside loop")
}

var (
	BREAK    = &BreakSignal{}
	CONTINUE = &ContinueSignal{}
)
