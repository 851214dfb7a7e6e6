package evaluator

import (
	"fmt"

	"github.com/pettylang/petty/internal/ast"
)

type BuiltinFunction func(e *Evaluator, args ...Object) Object

// Builtin is a Go-implemented callable. Arity counts every argument,
// including the receiver for methods; -1 accepts any count.
type Builtin struct {
	Fn    BuiltinFunction
	Name  string
	Arity int
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<builtin %s>", b.Name) }
func (b *Builtin) GetItem(e *Evaluator, key string) Object {
	return defaultItem(b, key)
}
func (b *Builtin) Call(e *Evaluator, args []Object) Object {
	if b.Arity >= 0 && len(args) != b.Arity {
		return newArityError(b.Name, b.Arity, len(args))
	}
	return b.Fn(e, args...)
}

// method builds a Builtin for a method table.
func method(name string, arity int, fn BuiltinFunction) *Builtin {
	return &Builtin{Name: name, Arity: arity, Fn: fn}
}

// Function is a user-defined function or closure. Env is the frame stack
// at the point of definition, shared by reference.
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	Body       *ast.BlockStatement
	Env        *Environment
	Line       int
	Column     int
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return fmt.Sprintf("<fn %s>", f.Name) }
func (f *Function) GetItem(e *Evaluator, key string) Object {
	return defaultItem(f, key)
}

// Call runs the body in the captured frames plus one fresh call frame.
// The caller's own frames are not visible to the callee.
func (f *Function) Call(e *Evaluator, args []Object) Object {
	if len(args) != len(f.Parameters) {
		return newArityError(f.Name, len(f.Parameters), len(args))
	}

	env := f.Env.Extend()
	for i, param := range f.Parameters {
		env.Set(param.Name.Value, args[i])
	}

	switch res := e.Eval(f.Body, env).(type) {
	case *Error:
		return res
	case *ReturnValue:
		return res.Value
	case *BreakSignal:
		return newKindError(ControlFlow, "'break' outside loop in %s()", f.Name)
	case *ContinueSignal:
		return newKindError(ControlFlow, "'continue' outside loop in %s()", f.Name)
	}
	return NULL
}

// Class holds field names and method syntax. Methods become closures only
// when an instance is built.
type Class struct {
	Name    string
	Fields  []string
	Methods []*ast.FunctionStatement
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return fmt.Sprintf("<class %s>", c.Name) }
func (c *Class) GetItem(e *Evaluator, key string) Object {
	return defaultItem(c, key)
}

// Call instantiates the class. Each method gets its own closure over the
// environment at the instantiation site.
func (c *Class) Call(e *Evaluator, args []Object) Object {
	if len(args) != len(c.Fields) {
		return newArityError(c.Name, len(c.Fields), len(args))
	}

	inst := &Instance{Class: c, Fields: NewFrame()}
	for i, name := range c.Fields {
		inst.Fields.Set(name, args[i])
	}

	env := e.currentEnv()
	for _, m := range c.Methods {
		inst.Fields.Set(m.Name.Value, &Function{
			Name:       c.Name + "." + m.Name.Value,
			Parameters: m.Parameters,
			Body:       m.Body,
			Env:        env.Capture(),
			Line:       m.Token.Line,
			Column:     m.Token.Column,
		})
	}
	return inst
}

// Instance is a field map seeded with constructor arguments and per-instance
// method closures.
type Instance struct {
	Class  *Class
	Fields *Frame
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return fmt.Sprintf("<%s object>", i.Class.Name) }
func (i *Instance) GetItem(e *Evaluator, key string) Object {
	if obj, ok := i.Fields.Get(key); ok {
		return obj
	}
	return defaultItem(i, key)
}

// Call forwards to the instance's own __call__ with the instance leading.
func (i *Instance) Call(e *Evaluator, args []Object) Object {
	fn, ok := i.Fields.Get(DunderCall)
	if !ok {
		return newNotCallableError(i)
	}
	callArgs := append([]Object{i}, args...)
	return fn.Call(e, callArgs)
}

// defaultItem supplies protocol defaults: __repr__ from Inspect and
// identity __is_eq__. Anything else is unresolved.
func defaultItem(obj Object, key string) Object {
	switch key {
	case DunderRepr:
		return defaultRepr
	case DunderEq:
		return identityEq
	}
	return newAttributeError(obj, key)
}

// DefaultItem resolves the hooks every value has. Objects defined outside
// this package fall back to it from GetItem.
func DefaultItem(obj Object, key string) Object {
	return defaultItem(obj, key)
}

// notCallable is the Call of every non-callable type.
func notCallable(obj Object) Object {
	return newNotCallableError(obj)
}

var (
	defaultRepr = method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
		return NewString(args[0].Inspect())
	})
	identityEq = method(DunderEq, 2, func(e *Evaluator, args ...Object) Object {
		return nativeBoolToBooleanObject(args[0] == args[1])
	})
)
