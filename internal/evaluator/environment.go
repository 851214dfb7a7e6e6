package evaluator

import (
	"sort"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Frame is one lexical scope. Frames captured by closures can be reached
// from several threads, so access is locked.
type Frame struct {
	mu    sync.RWMutex
	store map[string]Object
}

func NewFrame() *Frame {
	return &Frame{store: make(map[string]Object)}
}

func (f *Frame) Get(name string) (Object, bool) {
	f.mu.RLock()
	obj, ok := f.store[name]
	f.mu.RUnlock()
	return obj, ok
}

func (f *Frame) Set(name string, val Object) Object {
	f.mu.Lock()
	f.store[name] = val
	f.mu.Unlock()
	return val
}

// Names returns the bound names in sorted order.
func (f *Frame) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.store))
	for k := range f.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// GlobalFrame is the process-wide scope shared by every thread.
type GlobalFrame struct {
	store cmap.ConcurrentMap[string, Object]
}

func NewGlobalFrame() *GlobalFrame {
	return &GlobalFrame{store: cmap.New[Object]()}
}

func (g *GlobalFrame) Get(name string) (Object, bool) {
	return g.store.Get(name)
}

func (g *GlobalFrame) Set(name string, val Object) Object {
	g.store.Set(name, val)
	return val
}

// Names returns the bound names in sorted order.
func (g *GlobalFrame) Names() []string {
	names := g.store.Keys()
	sort.Strings(names)
	return names
}

// Environment is a stack of frames over the global frame. Lookups walk
// innermost to outermost, then globals. Writes go to the innermost frame,
// or to globals when the stack is empty.
//
// An Environment value is never mutated after it is shared: Extend and
// Capture build new stacks that point at the same Frame objects, which is
// what gives closures by-reference capture.
type Environment struct {
	frames  []*Frame
	globals *GlobalFrame
}

func NewEnvironment(globals *GlobalFrame) *Environment {
	return &Environment{globals: globals}
}

func (env *Environment) Get(name string) (Object, bool) {
	for i := len(env.frames) - 1; i >= 0; i-- {
		if obj, ok := env.frames[i].Get(name); ok {
			return obj, true
		}
	}
	return env.globals.Get(name)
}

func (env *Environment) Set(name string, val Object) Object {
	if n := len(env.frames); n > 0 {
		return env.frames[n-1].Set(name, val)
	}
	return env.globals.Set(name, val)
}

// Extend returns a new environment with a fresh innermost frame.
func (env *Environment) Extend() *Environment {
	frames := make([]*Frame, len(env.frames), len(env.frames)+1)
	copy(frames, env.frames)
	frames = append(frames, NewFrame())
	return &Environment{frames: frames, globals: env.globals}
}

// Capture returns an environment sharing this one's frames, for a closure.
func (env *Environment) Capture() *Environment {
	frames := make([]*Frame, len(env.frames))
	copy(frames, env.frames)
	return &Environment{frames: frames, globals: env.globals}
}

// Depth is the number of local frames.
func (env *Environment) Depth() int {
	return len(env.frames)
}

func (env *Environment) Globals() *GlobalFrame {
	return env.globals
}
