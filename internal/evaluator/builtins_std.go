package evaluator

import (
	"errors"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/pettylang/petty/internal/config"
)

// newStdModule builds std with its fs, time, thread and test children.
func newStdModule() *Module {
	return NewModule(config.StdModuleName).
		Set("fs", newFSModule()).
		Set("time", newTimeModule()).
		Set("thread", newThreadModule()).
		Set("test", newTestModule())
}

func newFSModule() *Module {
	return NewModule("fs").
		Func("read_text", 1, func(e *Evaluator, args ...Object) Object {
			path, err := toPath(args[0], "read_text")
			if err != nil {
				return err
			}
			data, ioErr := util.ReadFile(e.FS, path)
			if ioErr != nil {
				return newError("read_text: %v", ioErr)
			}
			return NewString(string(data))
		}).
		Func("write_text", 2, func(e *Evaluator, args ...Object) Object {
			path, err := toPath(args[0], "write_text")
			if err != nil {
				return err
			}
			text, ok := args[1].(*String)
			if !ok {
				return newKindError(CapabilityMismatch, "write_text() content must be Str, got '%s'", typeName(args[1]))
			}
			if ioErr := util.WriteFile(e.FS, path, []byte(text.Value), 0o644); ioErr != nil {
				return newError("write_text: %v", ioErr)
			}
			return NULL
		}).
		Func("exists", 1, func(e *Evaluator, args ...Object) Object {
			path, err := toPath(args[0], "exists")
			if err != nil {
				return err
			}
			_, statErr := e.FS.Stat(path)
			return nativeBoolToBooleanObject(statErr == nil)
		}).
		Func("remove", 1, func(e *Evaluator, args ...Object) Object {
			path, err := toPath(args[0], "remove")
			if err != nil {
				return err
			}
			if ioErr := e.FS.Remove(path); ioErr != nil {
				return newError("remove: %v", ioErr)
			}
			return NULL
		}).
		Func("list_dir", 1, func(e *Evaluator, args ...Object) Object {
			path, err := toPath(args[0], "list_dir")
			if err != nil {
				return err
			}
			infos, ioErr := e.FS.ReadDir(path)
			if ioErr != nil {
				return newError("list_dir: %v", ioErr)
			}
			names := make([]string, len(infos))
			for i, info := range infos {
				names[i] = info.Name()
			}
			sort.Strings(names)
			elements := make([]Object, len(names))
			for i, name := range names {
				elements[i] = NewString(name)
			}
			return NewList(elements)
		}).
		Func("open", 1, func(e *Evaluator, args ...Object) Object {
			path, err := toPath(args[0], "open")
			if err != nil {
				return err
			}
			f, ioErr := e.FS.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
			if ioErr != nil {
				return newError("open: %v", ioErr)
			}
			e.Logger.Debug().Str("path", path).Msg("file opened")
			return &FileObject{Path: path, file: f}
		})
}

func toPath(obj Object, fn string) (string, *Error) {
	s, ok := obj.(*String)
	if !ok {
		return "", newKindError(CapabilityMismatch, "%s() path must be Str, got '%s'", fn, typeName(obj))
	}
	return s.Value, nil
}

// FileObject is an open file on the evaluator's filesystem.
type FileObject struct {
	Path   string
	mu     sync.Mutex
	file   billy.File
	closed bool
}

func (f *FileObject) Type() ObjectType { return FILE_OBJ }
func (f *FileObject) Inspect() string  { return "<file " + f.Path + ">" }
func (f *FileObject) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(fileMethods, f, key)
}
func (f *FileObject) Call(e *Evaluator, args []Object) Object { return notCallable(f) }

var errFileClosed = errors.New("file already closed")

// with runs fn on the underlying file under the lock.
func (f *FileObject) with(fn func(billy.File) Object) Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return newError("%s: %v", f.Path, errFileClosed)
	}
	return fn(f.file)
}

var fileMethods map[string]*Builtin

func init() {
	fileMethods = map[string]*Builtin{
		"read": method("read", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*FileObject](args, "read")
			if err != nil {
				return err
			}
			return self.with(func(f billy.File) Object {
				data, ioErr := io.ReadAll(f)
				if ioErr != nil {
					return newError("read %s: %v", self.Path, ioErr)
				}
				return NewString(string(data))
			})
		}),
		"write": method("write", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*FileObject](args, "write")
			if err != nil {
				return err
			}
			text, ok := args[1].(*String)
			if !ok {
				return newKindError(CapabilityMismatch, "write() content must be Str, got '%s'", typeName(args[1]))
			}
			return self.with(func(f billy.File) Object {
				n, ioErr := f.Write([]byte(text.Value))
				if ioErr != nil {
					return newError("write %s: %v", self.Path, ioErr)
				}
				return NewInteger(int64(n))
			})
		}),
		"close": method("close", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*FileObject](args, "close")
			if err != nil {
				return err
			}
			return self.with(func(f billy.File) Object {
				self.closed = true
				if ioErr := f.Close(); ioErr != nil {
					return newError("close %s: %v", self.Path, ioErr)
				}
				return NULL
			})
		}),
	}
}

func newTimeModule() *Module {
	return NewModule("time").
		Func("now_ms", 0, func(e *Evaluator, args ...Object) Object {
			return NewInteger(time.Now().UnixMilli())
		}).
		Set("sleep", sleepBuiltin)
}

func newThreadModule() *Module {
	return NewModule("thread").
		Set("spawn", spawnBuiltin).
		Set("sleep", sleepBuiltin).
		Set(config.ThreadPoolName, threadPoolBuiltin)
}

func newTestModule() *Module {
	return NewModule("test").
		Func("assert", 1, func(e *Evaluator, args ...Object) Object {
			ok, err := e.Truthy(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return newKindError(AssertionFailed, "assertion failed")
			}
			return NULL
		}).
		Func("assert_eq", 2, func(e *Evaluator, args ...Object) Object {
			return assertEquality(e, args[0], args[1], true)
		}).
		Func("assert_ne", 2, func(e *Evaluator, args ...Object) Object {
			return assertEquality(e, args[0], args[1], false)
		})
}

func assertEquality(e *Evaluator, left, right Object, wantEqual bool) Object {
	eq := e.Equals(left, right)
	if isError(eq) {
		return eq
	}
	if (eq == TRUE) == wantEqual {
		return NULL
	}
	l, err := e.Repr(left)
	if err != nil {
		return err
	}
	r, err := e.Repr(right)
	if err != nil {
		return err
	}
	if wantEqual {
		return newKindError(AssertionFailed, "assertion failed: %s != %s", l, r)
	}
	return newKindError(AssertionFailed, "assertion failed: %s == %s", l, r)
}
