package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pettylang/petty/internal/config"
	"github.com/pettylang/petty/internal/token"
)

// ThreadHandle is the result of spawn: a running goroutine with its own
// evaluator and the value its callable returned.
type ThreadHandle struct {
	ID     uuid.UUID
	done   chan struct{}
	result Object
}

func (h *ThreadHandle) Type() ObjectType { return THREAD_OBJ }
func (h *ThreadHandle) Inspect() string  { return fmt.Sprintf("<thread %s>", h.ID) }
func (h *ThreadHandle) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(threadMethods, h, key)
}
func (h *ThreadHandle) Call(e *Evaluator, args []Object) Object { return notCallable(h) }

// Join blocks until the thread finishes. Joining again returns the same
// result.
func (h *ThreadHandle) Join() Object {
	<-h.done
	return h.result
}

// Spawn runs fn with no arguments on a new goroutine. The child evaluator
// starts with an empty frame stack and shares the global frame.
func (e *Evaluator) Spawn(fn Object) *ThreadHandle {
	h := &ThreadHandle{ID: uuid.New(), done: make(chan struct{})}
	child := e.Clone()
	child.Logger = e.Logger.With().Str("thread", h.ID.String()).Logger()
	child.Logger.Debug().Str("callable", callableName(fn)).Msg("thread spawned")

	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.result = newError("thread %s panicked: %v", h.ID, r)
			}
		}()
		h.result = child.applyFunction(fn, nil, token.Token{Lexeme: config.SpawnFuncName})
		child.Logger.Debug().Str("result", typeName(h.result)).Msg("thread finished")
	}()
	return h
}

// MutexObject is a lock-guarded cell shared between threads.
type MutexObject struct {
	mu    sync.Mutex
	value Object
}

func (m *MutexObject) Type() ObjectType { return MUTEX_OBJ }
func (m *MutexObject) Inspect() string  { return "<mutex>" }
func (m *MutexObject) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(mutexMethods, m, key)
}
func (m *MutexObject) Call(e *Evaluator, args []Object) Object { return notCallable(m) }

// ThreadPool collects handles so they can be joined together.
type ThreadPool struct {
	mu      sync.Mutex
	handles []*ThreadHandle
}

func (p *ThreadPool) Type() ObjectType { return THREAD_POOL_OBJ }
func (p *ThreadPool) Inspect() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("<thread pool of %d>", len(p.handles))
}
func (p *ThreadPool) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(threadPoolMethods, p, key)
}
func (p *ThreadPool) Call(e *Evaluator, args []Object) Object { return notCallable(p) }

var spawnBuiltin = &Builtin{
	Name:  config.SpawnFuncName,
	Arity: 1,
	Fn: func(e *Evaluator, args ...Object) Object {
		return e.Spawn(args[0])
	},
}

var sleepBuiltin = &Builtin{
	Name:  config.SleepFuncName,
	Arity: 1,
	Fn: func(e *Evaluator, args ...Object) Object {
		ms, err := toMillis(args[0], "sleep() duration")
		if err != nil {
			return err
		}
		return e.sleep(ms)
	},
}

var threadPoolBuiltin = &Builtin{
	Name:  config.ThreadPoolName,
	Arity: 0,
	Fn: func(e *Evaluator, args ...Object) Object {
		return &ThreadPool{}
	},
}

// sleep blocks for ms milliseconds or until the evaluator is cancelled.
func (e *Evaluator) sleep(ms float64) Object {
	if ms <= 0 {
		return NULL
	}
	ctx := e.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timer := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
	defer timer.Stop()
	select {
	case <-timer.C:
		return NULL
	case <-ctx.Done():
		return newError("execution cancelled: %v", ctx.Err())
	}
}

var (
	threadMethods     map[string]*Builtin
	mutexMethods      map[string]*Builtin
	threadPoolMethods map[string]*Builtin
)

func init() {
	threadMethods = map[string]*Builtin{
		"join": method("join", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ThreadHandle](args, "join")
			if err != nil {
				return err
			}
			e.Logger.Debug().Str("thread", self.ID.String()).Msg("joining thread")
			return self.Join()
		}),
		"id": method("id", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ThreadHandle](args, "id")
			if err != nil {
				return err
			}
			return NewString(self.ID.String())
		}),
	}

	mutexMethods = map[string]*Builtin{
		"get": method("get", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*MutexObject](args, "get")
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			return self.value
		}),
		"set": method("set", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*MutexObject](args, "set")
			if err != nil {
				return err
			}
			self.mu.Lock()
			self.value = args[1]
			self.mu.Unlock()
			return NULL
		}),
		// update calls fn with the current value while holding the lock and
		// stores the result. fn must not touch the same mutex.
		"update": method("update", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*MutexObject](args, "update")
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			res := e.applyFunction(args[1], []Object{self.value}, token.Token{Lexeme: "update"})
			if isError(res) {
				return res
			}
			self.value = res
			return res
		}),
	}

	threadPoolMethods = map[string]*Builtin{
		"spawn": method("spawn", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ThreadPool](args, "spawn")
			if err != nil {
				return err
			}
			h := e.Spawn(args[1])
			self.mu.Lock()
			self.handles = append(self.handles, h)
			self.mu.Unlock()
			return h
		}),
		// join waits for every thread in spawn order and returns their
		// results. The first failing thread's error is returned instead.
		"join": method("join", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ThreadPool](args, "join")
			if err != nil {
				return err
			}
			self.mu.Lock()
			handles := make([]*ThreadHandle, len(self.handles))
			copy(handles, self.handles)
			self.mu.Unlock()

			results := make([]Object, len(handles))
			var firstErr Object
			for i, h := range handles {
				results[i] = h.Join()
				if firstErr == nil && isError(results[i]) {
					firstErr = results[i]
				}
			}
			if firstErr != nil {
				return firstErr
			}
			return NewList(results)
		}),
		"len": method("len", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ThreadPool](args, "len")
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			return NewInteger(int64(len(self.handles)))
		}),
	}
}
