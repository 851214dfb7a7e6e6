package evaluator

import (
	"fmt"
	"sync"
)

// Module is a named namespace of members, such as std and its children.
// Members are plain functions: a member call passes no receiver.
type Module struct {
	Name    string
	mu      sync.RWMutex
	members map[string]Object
}

func NewModule(name string) *Module {
	return &Module{Name: name, members: make(map[string]Object)}
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return fmt.Sprintf("<module %s>", m.Name) }

func (m *Module) GetItem(e *Evaluator, key string) Object {
	m.mu.RLock()
	obj, ok := m.members[key]
	m.mu.RUnlock()
	if ok {
		return obj
	}
	return defaultItem(m, key)
}

func (m *Module) Call(e *Evaluator, args []Object) Object { return notCallable(m) }

// Set binds a member and returns the module for chaining.
func (m *Module) Set(name string, val Object) *Module {
	m.mu.Lock()
	m.members[name] = val
	m.mu.Unlock()
	return m
}

// Func binds a Go builtin as a member.
func (m *Module) Func(name string, arity int, fn BuiltinFunction) *Module {
	return m.Set(name, &Builtin{Name: m.Name + "." + name, Arity: arity, Fn: fn})
}
