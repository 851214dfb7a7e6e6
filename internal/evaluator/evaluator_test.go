package evaluator_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettylang/petty/internal/ast"
	"github.com/pettylang/petty/internal/evaluator"
	"github.com/pettylang/petty/internal/lexer"
	"github.com/pettylang/petty/internal/parser"
	"github.com/pettylang/petty/internal/pipeline"
)

type session struct {
	e   *evaluator.Evaluator
	out *bytes.Buffer
}

func newSession() *session {
	e := evaluator.New()
	out := &bytes.Buffer{}
	e.Out = out
	e.FS = memfs.New()
	evaluator.RegisterBuiltins(e)
	return &session{e: e, out: out}
}

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: input}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	require.Empty(t, ctx.Errors, "parse errors")
	return ctx.AstRoot.(*ast.Program)
}

func (s *session) run(t *testing.T, input string) ([]evaluator.Object, error) {
	t.Helper()
	return s.e.Run(parse(t, input))
}

func (s *session) mustRun(t *testing.T, input string) []evaluator.Object {
	t.Helper()
	results, err := s.run(t, input)
	require.NoError(t, err)
	return results
}

func (s *session) global(t *testing.T, name string) evaluator.Object {
	t.Helper()
	obj, ok := s.e.Globals.Get(name)
	require.True(t, ok, "global %q not set", name)
	return obj
}

func requireInt(t *testing.T, obj evaluator.Object, want int64) {
	t.Helper()
	i, ok := obj.(*evaluator.Integer)
	require.True(t, ok, "expected Int, got %s (%s)", obj.Type(), obj.Inspect())
	assert.Equal(t, want, i.Value)
}

func requireKind(t *testing.T, err error, kind evaluator.ErrorKind) *evaluator.Error {
	t.Helper()
	require.Error(t, err)
	var rtErr *evaluator.Error
	require.True(t, errors.As(err, &rtErr), "expected runtime error, got %T", err)
	assert.Equal(t, kind, rtErr.Kind, rtErr.Message)
	return rtErr
}

func TestRunResults(t *testing.T) {
	s := newSession()
	results := s.mustRun(t, "a = 3; b = 4; c = a + b; c * 2")
	require.Len(t, results, 4)
	requireInt(t, results[3], 14)
	requireInt(t, s.global(t, "c"), 7)
}

func TestRunExpression(t *testing.T) {
	s := newSession()
	s.mustRun(t, "a = 20")

	expr := func(input string) ast.Expression {
		program := parse(t, input)
		require.Len(t, program.Statements, 1)
		return program.Statements[0].(*ast.ExpressionStatement).Expression
	}

	res, err := s.e.RunExpression(expr("a * 2 + 2"))
	require.NoError(t, err)
	requireInt(t, res, 42)

	_, err = s.e.RunExpression(expr("a % 0"))
	requireKind(t, err, evaluator.NumericDomain)

	_, err = s.e.RunExpression(expr("nope"))
	requireKind(t, err, evaluator.UnresolvedName)
}

func TestTopLevelReturnStopsProgram(t *testing.T) {
	s := newSession()
	results := s.mustRun(t, "a = 1\nreturn a + 1\na = 5")
	require.Len(t, results, 2)
	requireInt(t, results[1], 2)
	requireInt(t, s.global(t, "a"), 1)
}

func TestArityMismatch(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too_few", "fn f(a, b) { return a }\nf(1)"},
		{"too_many", "fn f(a, b) { return a }\nf(1, 2, 3)"},
		{"closure", "g = fn(x) { return x }\ng()"},
		{"class_fields", "class Point(x, y);\nPoint(1)"},
		{"method", "class C(v) { fn get(self) { return self.v } }\nC(1).get(2)"},
		{"builtin", "len([1], [2])"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSession().run(t, tc.input)
			requireKind(t, err, evaluator.ArityMismatch)
		})
	}
}

func TestShadowing(t *testing.T) {
	globals := evaluator.NewGlobalFrame()
	env := evaluator.NewEnvironment(globals)
	env.Set("x", evaluator.NewInteger(1))

	inner := env.Extend()
	inner.Set("x", evaluator.NewInteger(2))
	got, ok := inner.Get("x")
	require.True(t, ok)
	requireInt(t, got, 2)

	got, ok = env.Get("x")
	require.True(t, ok)
	requireInt(t, got, 1)
	assert.Equal(t, 0, env.Depth())
	assert.Equal(t, 1, inner.Depth())

	s := newSession()
	s.mustRun(t, `
x = 1
fn f() {
    x = 2
    return x
}
inside = f()
`)
	requireInt(t, s.global(t, "inside"), 2)
	requireInt(t, s.global(t, "x"), 1)
}

func TestClosureCapturesByReference(t *testing.T) {
	s := newSession()
	s.mustRun(t, "a = 1; fn f() { return a; } a = 2; r = f();")
	requireInt(t, s.global(t, "r"), 2)

	s.mustRun(t, `
fn outer() {
    n = 1
    fn get() { return n }
    n = 2
    return get()
}
nested = outer()

fn counter() {
    state = [0]
    return fn() {
        state[0] = state[0] + 1
        return state[0]
    }
}
tick = counter()
tick()
tick()
ticks = tick()
`)
	requireInt(t, s.global(t, "nested"), 2)
	requireInt(t, s.global(t, "ticks"), 3)
}

func TestRecursion(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
fn fib(n) {
    if n < 2 { return n }
    return fib(n - 1) + fib(n - 2)
}
r = fib(15)
`)
	requireInt(t, s.global(t, "r"), 610)
}

func TestForLoopCallsNextExactly(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
class Iter(items, pos, calls) {
    fn __iter__(self) { return self }
    fn __next__(self) {
        self.calls[0] = self.calls[0] + 1
        i = self.pos[0]
        if i < len(self.items) {
            self.pos[0] = i + 1
            return Some(self.items[i])
        }
        return None
    }
}
it = Iter([10, 20, 30], [0], [0])
total = 0
for x in it {
    total = total + x
}
calls = it.calls[0]
`)
	requireInt(t, s.global(t, "total"), 60)
	// three present values plus the one absent that ends the loop
	requireInt(t, s.global(t, "calls"), 4)
}

func TestReturnUnwindsNestedBlocks(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
fn f() {
    if true {
        while true {
            return 1
        }
    }
    return 2
}
r = f()
`)
	requireInt(t, s.global(t, "r"), 1)
}

func TestBreakAndContinue(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
total = 0
for i in range(10) {
    if i == 5 { break }
    if i % 2 == 0 { continue }
    total = total + i
}
n = 0
while true {
    n = n + 1
    if n >= 3 { break }
}
fn first_even(xs) {
    for x: xs {
        if x % 2 == 0 { return x }
    }
    return -1
}
fe = first_even([1, 3, 4, 6])
`)
	requireInt(t, s.global(t, "total"), 4)
	requireInt(t, s.global(t, "n"), 3)
	requireInt(t, s.global(t, "fe"), 4)
}

func TestLoopSignalOutsideLoop(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"top_level_break", "break"},
		{"top_level_continue", "if true { continue }"},
		{"function_break", "fn f() { break }\nf()"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSession().run(t, tc.input)
			requireKind(t, err, evaluator.ControlFlow)
		})
	}
}

// eqSpy records every lookup of the equality hook.
type eqSpy struct {
	lookups int
}

func (s *eqSpy) Type() evaluator.ObjectType { return "Spy" }
func (s *eqSpy) Inspect() string            { return "<spy>" }
func (s *eqSpy) GetItem(e *evaluator.Evaluator, key string) evaluator.Object {
	if key == evaluator.DunderEq {
		s.lookups++
	}
	return evaluator.TRUE
}
func (s *eqSpy) Call(e *evaluator.Evaluator, args []evaluator.Object) evaluator.Object {
	return evaluator.TRUE
}

func TestEqualityAcrossTypes(t *testing.T) {
	s := newSession()
	spy := &eqSpy{}
	s.e.Register("spy", spy)
	results := s.mustRun(t, `
spy == 1
1 == spy
spy != "x"
1 == 1.0
"1" == 1
null == false
`)
	want := []evaluator.Object{
		evaluator.FALSE, evaluator.FALSE, evaluator.TRUE,
		evaluator.FALSE, evaluator.FALSE, evaluator.FALSE,
	}
	for i := range want {
		assert.Same(t, want[i], results[i], "statement %d", i)
	}
	assert.Zero(t, spy.lookups)

	s.mustRun(t, `
hits = [0]
class C(v) {
    fn __is_eq__(self, other) {
        hits[0] = hits[0] + 1
        return self.v == other.v
    }
}
class D(v);
c = C(1)
r1 = c == 1
r2 = c == "x"
r3 = c == D(1)
r4 = c == C(1)
r5 = c != C(2)
`)
	assert.Equal(t, evaluator.FALSE, s.global(t, "r1"))
	assert.Equal(t, evaluator.FALSE, s.global(t, "r2"))
	assert.Equal(t, evaluator.FALSE, s.global(t, "r3"))
	assert.Equal(t, evaluator.TRUE, s.global(t, "r4"))
	assert.Equal(t, evaluator.TRUE, s.global(t, "r5"))
	hits := s.global(t, "hits").(*evaluator.List)
	first, _ := hits.At(0)
	requireInt(t, first, 2)
}

func TestClassInstances(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
class Point(x, y) { fn sum(self) { return self.x + self.y; } }
p = Point(3, 4)
a = p.sum()
b = Point(1, 1).sum()
c = p.sum()
`)
	requireInt(t, s.global(t, "a"), 7)
	requireInt(t, s.global(t, "b"), 2)
	requireInt(t, s.global(t, "c"), 7)

	p := s.global(t, "p").(*evaluator.Instance)
	q, err := s.run(t, "Point(5, 6)")
	require.NoError(t, err)
	other := q[0].(*evaluator.Instance)
	pSum, _ := p.Fields.Get("sum")
	oSum, _ := other.Fields.Get("sum")
	assert.NotSame(t, pSum, oSum)
}

func TestMethodsSeeInstantiationSite(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
class A(x) { fn get(self) { return local } }
fn make() {
    local = 5
    return A(1)
}
r = make().get()
`)
	requireInt(t, s.global(t, "r"), 5)

	_, err := s.run(t, `
fn define() {
    hidden = 1
    class K(v) { fn get(self) { return hidden } }
    return K
}
K = define()
K(0).get()
`)
	rtErr := requireKind(t, err, evaluator.UnresolvedName)
	assert.Contains(t, rtErr.Message, "name 'hidden' is not defined")
}

func TestInstanceOperatorsAndCall(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
class Vec(x, y) {
    fn __add__(self, o) { return Vec(self.x + o.x, self.y + o.y) }
    fn __repr__(self) { return "Vec(" + str(self.x) + ", " + str(self.y) + ")" }
    fn __bool__(self) { return self.x != 0 || self.y != 0 }
    fn __call__(self, k) { return self.x * k }
}
v = Vec(1, 2) + Vec(3, 4)
shown = repr(v)
scaled = v(10)
zero = 0
if Vec(0, 0) { zero = 1 } else { zero = 2 }
print(v)
`)
	assert.Equal(t, "Vec(4, 6)", s.global(t, "shown").(*evaluator.String).Value)
	requireInt(t, s.global(t, "scaled"), 40)
	requireInt(t, s.global(t, "zero"), 2)
	assert.Equal(t, "Vec(4, 6)\n", s.out.String())
}

func TestMissingOperator(t *testing.T) {
	_, err := newSession().run(t, "class A(v);\nA(1) + 1")
	rtErr := requireKind(t, err, evaluator.CapabilityMismatch)
	assert.Contains(t, rtErr.Message, "unsupported operand type(s) for +: 'A' and 'Int'")
}

func TestShortCircuit(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
fn boom() { return 1 / 0 }
a = false && boom()
b = true || boom()
c = 0 || "fallback"
d = 1 && 2
`)
	assert.Equal(t, evaluator.FALSE, s.global(t, "a"))
	assert.Equal(t, evaluator.TRUE, s.global(t, "b"))
	assert.Equal(t, "fallback", s.global(t, "c").(*evaluator.String).Value)
	requireInt(t, s.global(t, "d"), 2)
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		kind  evaluator.ErrorKind
		msg   string
	}{
		{"int_div_zero", "1 / 0", evaluator.NumericDomain, "integer division by zero"},
		{"float_div_zero", "1.5 / 0", evaluator.NumericDomain, "float division by zero"},
		{"mod_zero", "7 % 0", evaluator.NumericDomain, "integer modulo by zero"},
		{"unresolved", "y + 1", evaluator.UnresolvedName, "name 'y' is not defined"},
		{"attribute", "class P(x);\nP(1).z", evaluator.UnresolvedName, "'P' object has no attribute 'z'"},
		{"not_callable", "x = 1\nx()", evaluator.CapabilityMismatch, "'Int' object is not callable"},
		{"list_plus_int", "[1] + 1", evaluator.CapabilityMismatch, "unsupported operand"},
		{"bad_condition", "class B(v) { fn __bool__(self) { return 1 } }\nif B(0) { }", evaluator.CapabilityMismatch,
			"__bool__ of 'B' returned 'Int', expected Bool"},
		{"unwrap_none", "None.unwrap()", evaluator.RuntimeFailure, "unwrap() on None"},
		{"index_range", "[1, 2][5]", evaluator.RuntimeFailure, "out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSession().run(t, tc.input)
			rtErr := requireKind(t, err, tc.kind)
			assert.Contains(t, rtErr.Message, tc.msg)
			assert.Greater(t, rtErr.Line, 0)
		})
	}
}

func TestErrorStackTrace(t *testing.T) {
	_, err := newSession().run(t, `
fn inner() { return 1 / 0 }
fn outer() { return inner() }
outer()
`)
	rtErr := requireKind(t, err, evaluator.NumericDomain)
	require.Len(t, rtErr.StackTrace, 2)
	assert.Equal(t, "outer", rtErr.StackTrace[0].Name)
	assert.Equal(t, "inner", rtErr.StackTrace[1].Name)
	assert.Contains(t, rtErr.Inspect(), "Stack trace:")
}

func TestMaxDepth(t *testing.T) {
	s := newSession()
	s.e.MaxDepth = 300
	_, err := s.run(t, "fn r(n) { return r(n + 1) }\nr(0)")
	rtErr := requireKind(t, err, evaluator.RuntimeFailure)
	assert.Contains(t, rtErr.Message, "maximum recursion depth exceeded")
}

func TestCollectionsAndStrings(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
xs = [3, 1]
xs.push(2)
xs[0] = 9
n = len(xs)
missing = xs.get(10)
found = xs.find(2)
has = xs.contains(1)
popped = xs.pop().unwrap()
joined = [1] + [2, 3]
rep = [0] * 3
chars = []
for c in "héllo" {
    chars.push(c)
}
word = "ab" * 2 + "c"
parts = "a,b,c".split(",")
sum = range(1, 5).sum()
big = 1000 + 24
`)
	requireInt(t, s.global(t, "n"), 3)
	assert.Equal(t, evaluator.NONE, s.global(t, "missing"))
	assert.Equal(t, "Some(2)", s.global(t, "found").Inspect())
	assert.Equal(t, evaluator.TRUE, s.global(t, "has"))
	requireInt(t, s.global(t, "popped"), 2)
	assert.Equal(t, "[9, 1]", s.global(t, "xs").Inspect())
	assert.Equal(t, "[1, 2, 3]", s.global(t, "joined").Inspect())
	assert.Equal(t, "[0, 0, 0]", s.global(t, "rep").Inspect())
	assert.Equal(t, `["h", "é", "l", "l", "o"]`, s.global(t, "chars").Inspect())
	assert.Equal(t, "ababc", s.global(t, "word").(*evaluator.String).Value)
	assert.Equal(t, 3, s.global(t, "parts").(*evaluator.List).Len())
	requireInt(t, s.global(t, "sum"), 10)
	requireInt(t, s.global(t, "big"), 1024)
}

func TestSmallIntsInterned(t *testing.T) {
	assert.Same(t, evaluator.NewInteger(7), evaluator.NewInteger(7))
	assert.Same(t, evaluator.NewInteger(255), evaluator.NewInteger(255))
	assert.NotSame(t, evaluator.NewInteger(100000), evaluator.NewInteger(100000))
	assert.NotSame(t, evaluator.NewInteger(-1), evaluator.NewInteger(-1))
}

func TestPrint(t *testing.T) {
	s := newSession()
	s.mustRun(t, `print("a", 1, 2.5, [1, "b"], None, Some(true), null)`)
	assert.Equal(t, "a 1 2.5 [1, \"b\"] None Some(true) null\n", s.out.String())
}
