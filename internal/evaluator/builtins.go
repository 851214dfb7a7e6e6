package evaluator

import (
	"strings"

	"github.com/pettylang/petty/internal/config"
)

// Builtins are the global functions installed before a program runs.
var Builtins = map[string]*Builtin{
	config.PrintFuncName: {
		Name:  config.PrintFuncName,
		Arity: -1,
		Fn: func(e *Evaluator, args ...Object) Object {
			parts := make([]string, len(args))
			for i, arg := range args {
				s, err := e.Display(arg)
				if err != nil {
					return err
				}
				parts[i] = s
			}
			if err := e.writeOut(strings.Join(parts, " ") + "\n"); err != nil {
				return newError("print: %v", err)
			}
			return NULL
		},
	},
	config.ReprFuncName: {
		Name:  config.ReprFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			s, err := e.Repr(args[0])
			if err != nil {
				return err
			}
			return NewString(s)
		},
	},
	config.StrFuncName: {
		Name:  config.StrFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			s, err := e.Display(args[0])
			if err != nil {
				return err
			}
			return NewString(s)
		},
	},
	config.LenFuncName: {
		Name:  config.LenFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			return e.CallMethod(args[0], DunderLen)
		},
	},
	config.RangeFuncName: {
		Name:  config.RangeFuncName,
		Arity: -1,
		Fn: func(e *Evaluator, args ...Object) Object {
			switch len(args) {
			case 1:
				end, err := toInt(args[0], "range() bound")
				if err != nil {
					return err
				}
				return &Range{Start: 0, End: end}
			case 2:
				start, err := toInt(args[0], "range() start")
				if err != nil {
					return err
				}
				end, err := toInt(args[1], "range() end")
				if err != nil {
					return err
				}
				return &Range{Start: start, End: end}
			}
			return newKindError(ArityMismatch, "range() takes 1 or 2 arguments but %d were given", len(args))
		},
	},
	config.SomeFuncName: {
		Name:  config.SomeFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			return Some(args[0])
		},
	},
	config.SpawnFuncName: spawnBuiltin,
	config.SleepFuncName: sleepBuiltin,
	config.MutexFuncName: {
		Name:  config.MutexFuncName,
		Arity: 1,
		Fn: func(e *Evaluator, args ...Object) Object {
			return &MutexObject{value: args[0]}
		},
	},
}

// RegisterBuiltins installs the global functions, None and the std module.
func RegisterBuiltins(e *Evaluator) {
	for name, builtin := range Builtins {
		e.Register(name, builtin)
	}
	e.Register(config.NoneName, NONE)
	e.Register(config.StdModuleName, newStdModule())
}
