package evaluator

import (
	"fmt"
	"math/big"
	"strings"
	"sync"
)

// List is a mutable sequence shared by reference. Every access goes through
// mu; no method ever holds two list locks at once.
type List struct {
	mu       sync.Mutex
	elements []Object
}

func NewList(elements []Object) *List {
	return &List{elements: elements}
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string { return inspectNested(l, map[*List]bool{}) }

// inspectNested renders containers, printing a list already being
// rendered as [...].
func inspectNested(obj Object, seen map[*List]bool) string {
	switch v := obj.(type) {
	case *List:
		if seen[v] {
			return "[...]"
		}
		seen[v] = true
		defer delete(seen, v)
		snapshot := v.Snapshot()
		parts := make([]string, len(snapshot))
		for i, el := range snapshot {
			parts[i] = inspectNested(el, seen)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Option:
		if !v.Present {
			return "None"
		}
		return "Some(" + inspectNested(v.Value, seen) + ")"
	}
	return obj.Inspect()
}
func (l *List) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(listMethods, l, key)
}
func (l *List) Call(e *Evaluator, args []Object) Object { return notCallable(l) }

// Snapshot copies the elements under the lock.
func (l *List) Snapshot() []Object {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Object, len(l.elements))
	copy(out, l.elements)
	return out
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.elements)
}

func (l *List) Append(obj Object) {
	l.mu.Lock()
	l.elements = append(l.elements, obj)
	l.mu.Unlock()
}

// At returns the element at idx, if any.
func (l *List) At(idx int64) (Object, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= int64(len(l.elements)) {
		return nil, false
	}
	return l.elements[idx], true
}

func (l *List) setAt(idx int64, obj Object) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= int64(len(l.elements)) {
		return false
	}
	l.elements[idx] = obj
	return true
}

// ListIterator walks a live list by index.
type ListIterator struct {
	mu    sync.Mutex
	list  *List
	index int64
}

func (it *ListIterator) Type() ObjectType { return LIST_ITER_OBJ }
func (it *ListIterator) Inspect() string  { return "<list iterator>" }
func (it *ListIterator) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(listIterMethods, it, key)
}
func (it *ListIterator) Call(e *Evaluator, args []Object) Object { return notCallable(it) }

func (it *ListIterator) next() Object {
	it.mu.Lock()
	defer it.mu.Unlock()
	obj, ok := it.list.At(it.index)
	if !ok {
		return NONE
	}
	it.index++
	return Some(obj)
}

func (it *ListIterator) remaining() int64 {
	it.mu.Lock()
	defer it.mu.Unlock()
	n := int64(it.list.Len()) - it.index
	if n < 0 {
		return 0
	}
	return n
}

// StringIterator yields one-character strings.
type StringIterator struct {
	mu    sync.Mutex
	runes []rune
	index int
}

func (it *StringIterator) Type() ObjectType { return STRING_ITER_OBJ }
func (it *StringIterator) Inspect() string  { return "<str iterator>" }
func (it *StringIterator) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(stringIterMethods, it, key)
}
func (it *StringIterator) Call(e *Evaluator, args []Object) Object { return notCallable(it) }

// Range is the half-open interval [Start, End).
type Range struct {
	Start int64
	End   int64
}

func (r *Range) Type() ObjectType { return RANGE_OBJ }
func (r *Range) Inspect() string  { return fmt.Sprintf("range(%d, %d)", r.Start, r.End) }
func (r *Range) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(rangeMethods, r, key)
}
func (r *Range) Call(e *Evaluator, args []Object) Object { return notCallable(r) }

func (r *Range) Len() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

type RangeIterator struct {
	mu      sync.Mutex
	current int64
	end     int64
}

func (it *RangeIterator) Type() ObjectType { return RANGE_ITER_OBJ }
func (it *RangeIterator) Inspect() string  { return "<range iterator>" }
func (it *RangeIterator) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(rangeIterMethods, it, key)
}
func (it *RangeIterator) Call(e *Evaluator, args []Object) Object { return notCallable(it) }

// Option is the present/absent value iterators hand back from __next__.
type Option struct {
	Value   Object
	Present bool
}

// NONE is the shared absent Option.
var NONE = &Option{}

func Some(v Object) *Option {
	return &Option{Value: v, Present: true}
}

func (o *Option) Type() ObjectType { return OPTION_OBJ }
func (o *Option) Inspect() string { return inspectNested(o, map[*List]bool{}) }
func (o *Option) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(optionMethods, o, key)
}
func (o *Option) Call(e *Evaluator, args []Object) Object { return notCallable(o) }

var (
	listMethods       map[string]*Builtin
	listIterMethods   map[string]*Builtin
	stringIterMethods map[string]*Builtin
	rangeMethods      map[string]*Builtin
	rangeIterMethods  map[string]*Builtin
	optionMethods     map[string]*Builtin
)

func init() {
	listLen := method("len", 1, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*List](args, "len")
		if err != nil {
			return err
		}
		return NewInteger(int64(self.Len()))
	})
	listGetIndex := method(DunderGetIndex, 2, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*List](args, DunderGetIndex)
		if err != nil {
			return err
		}
		idx, err := toInt(args[1], "list index")
		if err != nil {
			return err
		}
		obj, ok := self.At(idx)
		if !ok {
			return newError("list index %d out of range", idx)
		}
		return obj
	})
	listSetIndex := method(DunderSetIndex, 3, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*List](args, DunderSetIndex)
		if err != nil {
			return err
		}
		idx, err := toInt(args[1], "list index")
		if err != nil {
			return err
		}
		if !self.setAt(idx, args[2]) {
			return newError("list assignment index %d out of range", idx)
		}
		return NULL
	})

	listMethods = map[string]*Builtin{
		"len":          listLen,
		DunderLen:      listLen,
		"get":          listGet,
		"set":          listSetIndex,
		DunderGetIndex: listGetIndex,
		DunderSetIndex: listSetIndex,
		"push": method("push", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, "push")
			if err != nil {
				return err
			}
			self.Append(args[1])
			return NULL
		}),
		"pop": method("pop", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, "pop")
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			n := len(self.elements)
			if n == 0 {
				return NONE
			}
			last := self.elements[n-1]
			self.elements = self.elements[:n-1]
			return Some(last)
		}),
		"contains": method("contains", 2, func(e *Evaluator, args ...Object) Object {
			res := listIndexOf(e, args, "contains")
			if isError(res) {
				return res
			}
			return nativeBoolToBooleanObject(res.(*Option).Present)
		}),
		"find": method("find", 2, func(e *Evaluator, args ...Object) Object {
			return listIndexOf(e, args, "find")
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, DunderRepr)
			if err != nil {
				return err
			}
			snapshot := self.Snapshot()
			parts := make([]string, len(snapshot))
			for i, el := range snapshot {
				s, err := e.Repr(el)
				if err != nil {
					return err
				}
				parts[i] = s
			}
			return NewString("[" + strings.Join(parts, ", ") + "]")
		}),
		DunderAdd: method(DunderAdd, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, DunderAdd)
			if err != nil {
				return err
			}
			other, ok := args[1].(*List)
			if !ok {
				return newOperandError(DunderAdd, self, args[1])
			}
			left := self.Snapshot()
			right := other.Snapshot()
			return NewList(append(left, right...))
		}),
		DunderMul: method(DunderMul, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, DunderMul)
			if err != nil {
				return err
			}
			n, ok := args[1].(*Integer)
			if !ok {
				return newOperandError(DunderMul, self, args[1])
			}
			snapshot := self.Snapshot()
			if len(snapshot) == 0 || n.Value <= 0 {
				return NewList([]Object{})
			}
			if err := checkRepeat(int64(len(snapshot)), n.Value); err != nil {
				return err
			}
			out := make([]Object, 0, int64(len(snapshot))*n.Value)
			for i := int64(0); i < n.Value; i++ {
				out = append(out, snapshot...)
			}
			return NewList(out)
		}),
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, DunderBool)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(self.Len() > 0)
		}),
		DunderIter: method(DunderIter, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, DunderIter)
			if err != nil {
				return err
			}
			return &ListIterator{list: self}
		}),
		// Each side is copied under its own lock before comparing, so two
		// threads comparing a == b and b == a cannot deadlock.
		DunderEq: method(DunderEq, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*List](args, DunderEq)
			if err != nil {
				return err
			}
			other, ok := args[1].(*List)
			if !ok {
				return FALSE
			}
			if self == other {
				return TRUE
			}
			left := self.Snapshot()
			right := other.Snapshot()
			if len(left) != len(right) {
				return FALSE
			}
			for i := range left {
				eq := e.Equals(left[i], right[i])
				if isError(eq) || eq == FALSE {
					return eq
				}
			}
			return TRUE
		}),
	}

	listIterMethods = map[string]*Builtin{
		DunderNext: method(DunderNext, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ListIterator](args, DunderNext)
			if err != nil {
				return err
			}
			return self.next()
		}),
		DunderLen: method(DunderLen, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*ListIterator](args, DunderLen)
			if err != nil {
				return err
			}
			return NewInteger(self.remaining())
		}),
		DunderIter: iterSelf,
	}

	stringIterMethods = map[string]*Builtin{
		DunderNext: method(DunderNext, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*StringIterator](args, DunderNext)
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			if self.index >= len(self.runes) {
				return NONE
			}
			r := self.runes[self.index]
			self.index++
			return Some(NewString(string(r)))
		}),
		DunderLen: method(DunderLen, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*StringIterator](args, DunderLen)
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			return NewInteger(int64(len(self.runes) - self.index))
		}),
		DunderIter: iterSelf,
	}

	rangeLen := method("len", 1, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*Range](args, "len")
		if err != nil {
			return err
		}
		return NewInteger(self.Len())
	})
	rangeMethods = map[string]*Builtin{
		"len":     rangeLen,
		DunderLen: rangeLen,
		DunderIter: method(DunderIter, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Range](args, DunderIter)
			if err != nil {
				return err
			}
			return &RangeIterator{current: self.Start, end: self.End}
		}),
		"sum": method("sum", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Range](args, "sum")
			if err != nil {
				return err
			}
			if self.End <= self.Start {
				return NewInteger(0)
			}
			start, end := big.NewInt(self.Start), big.NewInt(self.End)
			n := new(big.Int).Sub(end, start)
			sum := new(big.Int).Add(start, end)
			sum.Sub(sum, big.NewInt(1))
			sum.Mul(sum, n)
			sum.Quo(sum, big.NewInt(2))
			if !sum.IsInt64() {
				return newKindError(NumericDomain, "sum of %s overflows Int", self.Inspect())
			}
			return NewInteger(sum.Int64())
		}),
		DunderEq: method(DunderEq, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Range](args, DunderEq)
			if err != nil {
				return err
			}
			other, ok := args[1].(*Range)
			return nativeBoolToBooleanObject(ok && *self == *other)
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			return NewString(args[0].Inspect())
		}),
	}

	rangeIterMethods = map[string]*Builtin{
		DunderNext: method(DunderNext, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*RangeIterator](args, DunderNext)
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			if self.current >= self.end {
				return NONE
			}
			v := self.current
			self.current++
			return Some(NewInteger(v))
		}),
		DunderLen: method(DunderLen, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*RangeIterator](args, DunderLen)
			if err != nil {
				return err
			}
			self.mu.Lock()
			defer self.mu.Unlock()
			if self.current >= self.end {
				return NewInteger(0)
			}
			return NewInteger(self.end - self.current)
		}),
		DunderIter: iterSelf,
	}

	optionMethods = map[string]*Builtin{
		"unwrap": method("unwrap", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Option](args, "unwrap")
			if err != nil {
				return err
			}
			if !self.Present {
				return newError("called unwrap() on None")
			}
			return self.Value
		}),
		"is_some": method("is_some", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Option](args, "is_some")
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(self.Present)
		}),
		"is_none": method("is_none", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Option](args, "is_none")
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(!self.Present)
		}),
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Option](args, DunderBool)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(self.Present)
		}),
		DunderEq: method(DunderEq, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Option](args, DunderEq)
			if err != nil {
				return err
			}
			other, ok := args[1].(*Option)
			if !ok || self.Present != other.Present {
				return FALSE
			}
			if !self.Present {
				return TRUE
			}
			return e.Equals(self.Value, other.Value)
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Option](args, DunderRepr)
			if err != nil {
				return err
			}
			if !self.Present {
				return NewString("None")
			}
			inner, err := e.Repr(self.Value)
			if err != nil {
				return err
			}
			return NewString("Some(" + inner + ")")
		}),
	}
}

var iterSelf = method(DunderIter, 1, func(e *Evaluator, args ...Object) Object {
	return args[0]
})

var listGet = method("get", 2, func(e *Evaluator, args ...Object) Object {
	self, err := receiver[*List](args, "get")
	if err != nil {
		return err
	}
	idx, err := toInt(args[1], "list index")
	if err != nil {
		return err
	}
	obj, ok := self.At(idx)
	if !ok {
		return NONE
	}
	return Some(obj)
})

// listIndexOf returns Some(index) of the first element equal to args[1].
func listIndexOf(e *Evaluator, args []Object, name string) Object {
	self, err := receiver[*List](args, name)
	if err != nil {
		return err
	}
	for i, el := range self.Snapshot() {
		eq := e.Equals(el, args[1])
		if isError(eq) {
			return eq
		}
		if eq == TRUE {
			return Some(NewInteger(int64(i)))
		}
	}
	return NONE
}
