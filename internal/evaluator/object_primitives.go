package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/pettylang/petty/internal/config"
)

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(intMethods, i, key)
}
func (i *Integer) Call(e *Evaluator, args []Object) Object { return notCallable(i) }

// smallInts are the canonical Int objects for 0..SmallIntCacheSize-1.
var smallInts [config.SmallIntCacheSize]*Integer

func init() {
	for i := range smallInts {
		smallInts[i] = &Integer{Value: int64(i)}
	}
}

// NewInteger returns the shared instance for small values and allocates
// otherwise.
func NewInteger(v int64) *Integer {
	if v >= 0 && v < config.SmallIntCacheSize {
		return smallInts[v]
	}
	return &Integer{Value: v}
}

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }
func (f *Float) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(floatMethods, f, key)
}
func (f *Float) Call(e *Evaluator, args []Object) Object { return notCallable(f) }

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

type String struct {
	Value string
}

func NewString(s string) *String {
	return &String{Value: s}
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }
func (s *String) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(stringMethods, s, key)
}
func (s *String) Call(e *Evaluator, args []Object) Object { return notCallable(s) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(boolMethods, b, key)
}
func (b *Boolean) Call(e *Evaluator, args []Object) Object { return notCallable(b) }

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }
func (n *Null) GetItem(e *Evaluator, key string) Object {
	return lookupMethod(nullMethods, n, key)
}
func (n *Null) Call(e *Evaluator, args []Object) Object { return notCallable(n) }

var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// lookupMethod resolves key in a builtin type's method table.
func lookupMethod(table map[string]*Builtin, obj Object, key string) Object {
	if m, ok := table[key]; ok {
		return m
	}
	return defaultItem(obj, key)
}

var (
	intMethods    map[string]*Builtin
	floatMethods  map[string]*Builtin
	stringMethods map[string]*Builtin
	boolMethods   map[string]*Builtin
	nullMethods   map[string]*Builtin
)

func init() {
	numeric := map[string]*Builtin{
		DunderAdd: numericBinary(DunderAdd,
			func(a, b int64) Object { return NewInteger(a + b) },
			func(a, b float64) Object { return &Float{Value: a + b} }),
		DunderSub: numericBinary(DunderSub,
			func(a, b int64) Object { return NewInteger(a - b) },
			func(a, b float64) Object { return &Float{Value: a - b} }),
		DunderMul: numericBinary(DunderMul,
			func(a, b int64) Object { return NewInteger(a * b) },
			func(a, b float64) Object { return &Float{Value: a * b} }),
		DunderDiv: numericBinary(DunderDiv,
			func(a, b int64) Object {
				if b == 0 {
					return newKindError(NumericDomain, "integer division by zero")
				}
				return NewInteger(a / b)
			},
			func(a, b float64) Object {
				if b == 0 {
					return newKindError(NumericDomain, "float division by zero")
				}
				return &Float{Value: a / b}
			}),
		DunderMod: numericBinary(DunderMod,
			func(a, b int64) Object {
				if b == 0 {
					return newKindError(NumericDomain, "integer modulo by zero")
				}
				return NewInteger(a % b)
			},
			func(a, b float64) Object {
				if b == 0 {
					return newKindError(NumericDomain, "float modulo by zero")
				}
				return &Float{Value: math.Mod(a, b)}
			}),
		DunderLt: numericBinary(DunderLt,
			func(a, b int64) Object { return nativeBoolToBooleanObject(a < b) },
			func(a, b float64) Object { return nativeBoolToBooleanObject(a < b) }),
		DunderGt: numericBinary(DunderGt,
			func(a, b int64) Object { return nativeBoolToBooleanObject(a > b) },
			func(a, b float64) Object { return nativeBoolToBooleanObject(a > b) }),
		DunderLtEq: numericBinary(DunderLtEq,
			func(a, b int64) Object { return nativeBoolToBooleanObject(a <= b) },
			func(a, b float64) Object { return nativeBoolToBooleanObject(a <= b) }),
		DunderGtEq: numericBinary(DunderGtEq,
			func(a, b int64) Object { return nativeBoolToBooleanObject(a >= b) },
			func(a, b float64) Object { return nativeBoolToBooleanObject(a >= b) }),
		DunderEq: numericBinary(DunderEq,
			func(a, b int64) Object { return nativeBoolToBooleanObject(a == b) },
			func(a, b float64) Object { return nativeBoolToBooleanObject(a == b) }),
	}

	intMethods = map[string]*Builtin{
		DunderNeg: method(DunderNeg, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Integer](args, DunderNeg)
			if err != nil {
				return err
			}
			return NewInteger(-self.Value)
		}),
		"abs": method("abs", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Integer](args, "abs")
			if err != nil {
				return err
			}
			if self.Value == math.MinInt64 {
				return newKindError(NumericDomain, "abs(%d) overflows Int", self.Value)
			}
			if self.Value < 0 {
				return NewInteger(-self.Value)
			}
			return self
		}),
		DunderPos: method(DunderPos, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Integer](args, DunderPos)
			if err != nil {
				return err
			}
			return self
		}),
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Integer](args, DunderBool)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(self.Value != 0)
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Integer](args, DunderRepr)
			if err != nil {
				return err
			}
			return NewString(self.Inspect())
		}),
	}
	floatMethods = map[string]*Builtin{
		DunderNeg: method(DunderNeg, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Float](args, DunderNeg)
			if err != nil {
				return err
			}
			return &Float{Value: -self.Value}
		}),
		"abs": method("abs", 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Float](args, "abs")
			if err != nil {
				return err
			}
			return &Float{Value: math.Abs(self.Value)}
		}),
		DunderPos: method(DunderPos, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Float](args, DunderPos)
			if err != nil {
				return err
			}
			return self
		}),
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Float](args, DunderBool)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(self.Value != 0)
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Float](args, DunderRepr)
			if err != nil {
				return err
			}
			return NewString(self.Inspect())
		}),
	}
	for name, m := range numeric {
		intMethods[name] = m
		floatMethods[name] = m
	}

	stringMethods = map[string]*Builtin{
		DunderAdd: method(DunderAdd, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, DunderAdd)
			if err != nil {
				return err
			}
			other, ok := args[1].(*String)
			if !ok {
				return newOperandError(DunderAdd, self, args[1])
			}
			return NewString(self.Value + other.Value)
		}),
		DunderMul: method(DunderMul, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, DunderMul)
			if err != nil {
				return err
			}
			n, ok := args[1].(*Integer)
			if !ok {
				return newOperandError(DunderMul, self, args[1])
			}
			if n.Value <= 0 {
				return NewString("")
			}
			if err := checkRepeat(int64(len(self.Value)), n.Value); err != nil {
				return err
			}
			return NewString(strings.Repeat(self.Value, int(n.Value)))
		}),
		DunderLt:   stringCompare(DunderLt, func(c int) bool { return c < 0 }),
		DunderGt:   stringCompare(DunderGt, func(c int) bool { return c > 0 }),
		DunderLtEq: stringCompare(DunderLtEq, func(c int) bool { return c <= 0 }),
		DunderGtEq: stringCompare(DunderGtEq, func(c int) bool { return c >= 0 }),
		DunderEq:   stringCompare(DunderEq, func(c int) bool { return c == 0 }),
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, DunderBool)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(self.Value != "")
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, DunderRepr)
			if err != nil {
				return err
			}
			return NewString(self.Inspect())
		}),
		DunderLen: stringLen,
		"len":     stringLen,
		DunderGetIndex: method(DunderGetIndex, 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, DunderGetIndex)
			if err != nil {
				return err
			}
			idx, err := toInt(args[1], "string index")
			if err != nil {
				return err
			}
			runes := []rune(self.Value)
			if idx < 0 || idx >= int64(len(runes)) {
				return newError("string index %d out of range for length %d", idx, len(runes))
			}
			return NewString(string(runes[idx]))
		}),
		DunderIter: method(DunderIter, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, DunderIter)
			if err != nil {
				return err
			}
			return &StringIterator{runes: []rune(self.Value)}
		}),
		"contains": method("contains", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, "contains")
			if err != nil {
				return err
			}
			sub, ok := args[1].(*String)
			if !ok {
				return newKindError(CapabilityMismatch, "contains() argument must be Str, got '%s'", typeName(args[1]))
			}
			return nativeBoolToBooleanObject(strings.Contains(self.Value, sub.Value))
		}),
		"split": method("split", 2, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*String](args, "split")
			if err != nil {
				return err
			}
			sep, ok := args[1].(*String)
			if !ok {
				return newKindError(CapabilityMismatch, "split() separator must be Str, got '%s'", typeName(args[1]))
			}
			parts := strings.Split(self.Value, sep.Value)
			elements := make([]Object, len(parts))
			for i, p := range parts {
				elements[i] = NewString(p)
			}
			return NewList(elements)
		}),
		"upper": stringTransform("upper", strings.ToUpper),
		"lower": stringTransform("lower", strings.ToLower),
		"trim":  stringTransform("trim", strings.TrimSpace),
	}

	boolMethods = map[string]*Builtin{
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Boolean](args, DunderBool)
			if err != nil {
				return err
			}
			return self
		}),
		DunderNot: method(DunderNot, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Boolean](args, DunderNot)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(!self.Value)
		}),
		DunderAnd: boolBinary(DunderAnd, func(a, b bool) bool { return a && b }),
		DunderOr:  boolBinary(DunderOr, func(a, b bool) bool { return a || b }),
		DunderEq:  boolBinary(DunderEq, func(a, b bool) bool { return a == b }),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			self, err := receiver[*Boolean](args, DunderRepr)
			if err != nil {
				return err
			}
			return NewString(self.Inspect())
		}),
	}

	nullMethods = map[string]*Builtin{
		DunderBool: method(DunderBool, 1, func(e *Evaluator, args ...Object) Object {
			return FALSE
		}),
		DunderEq: method(DunderEq, 2, func(e *Evaluator, args ...Object) Object {
			_, ok := args[1].(*Null)
			return nativeBoolToBooleanObject(ok)
		}),
		DunderRepr: method(DunderRepr, 1, func(e *Evaluator, args ...Object) Object {
			return NewString("null")
		}),
	}
}

// numericBinary builds an Int/Float operator hook with float promotion.
func numericBinary(name string, intOp func(a, b int64) Object, floatOp func(a, b float64) Object) *Builtin {
	return method(name, 2, func(e *Evaluator, args ...Object) Object {
		switch l := args[0].(type) {
		case *Integer:
			switch r := args[1].(type) {
			case *Integer:
				return intOp(l.Value, r.Value)
			case *Float:
				return floatOp(float64(l.Value), r.Value)
			}
		case *Float:
			switch r := args[1].(type) {
			case *Integer:
				return floatOp(l.Value, float64(r.Value))
			case *Float:
				return floatOp(l.Value, r.Value)
			}
		default:
			return newKindError(CapabilityMismatch, "%s() called on '%s'", name, typeName(args[0]))
		}
		return newOperandError(name, args[0], args[1])
	})
}

func stringCompare(name string, pred func(int) bool) *Builtin {
	return method(name, 2, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*String](args, name)
		if err != nil {
			return err
		}
		other, ok := args[1].(*String)
		if !ok {
			return newOperandError(name, self, args[1])
		}
		return nativeBoolToBooleanObject(pred(strings.Compare(self.Value, other.Value)))
	})
}

func stringTransform(name string, fn func(string) string) *Builtin {
	return method(name, 1, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*String](args, name)
		if err != nil {
			return err
		}
		return NewString(fn(self.Value))
	})
}

var stringLen = method("len", 1, func(e *Evaluator, args ...Object) Object {
	self, err := receiver[*String](args, "len")
	if err != nil {
		return err
	}
	return NewInteger(int64(len([]rune(self.Value))))
})

func boolBinary(name string, op func(a, b bool) bool) *Builtin {
	return method(name, 2, func(e *Evaluator, args ...Object) Object {
		self, err := receiver[*Boolean](args, name)
		if err != nil {
			return err
		}
		other, ok := args[1].(*Boolean)
		if !ok {
			return newOperandError(name, self, args[1])
		}
		return nativeBoolToBooleanObject(op(self.Value, other.Value))
	})
}
