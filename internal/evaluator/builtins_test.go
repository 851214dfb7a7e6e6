package evaluator_test

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettylang/petty/internal/evaluator"
)

func TestMutexCounterAcrossThreads(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
counter = Mutex(0)
fn work() {
    for i in range(500) {
        counter.update(fn(v) { return v + 1 })
    }
    return true
}
t1 = spawn(work)
t2 = spawn(work)
a = t1.join()
b = t2.join()
total = counter.get()
`)
	requireInt(t, s.global(t, "total"), 1000)
	assert.Equal(t, evaluator.TRUE, s.global(t, "a"))
	assert.Equal(t, evaluator.TRUE, s.global(t, "b"))
}

func TestListEqualityReversedOrderDoesNotDeadlock(t *testing.T) {
	s := newSession()
	program := parse(t, `
a = [1, 2, 3]
b = [1, 2, 3]
fn ab() {
    n = 0
    for i in range(300) {
        if a == b { n = n + 1 }
    }
    return n
}
fn ba() {
    n = 0
    for i in range(300) {
        if b == a { n = n + 1 }
    }
    return n
}
t1 = spawn(ab)
t2 = spawn(ba)
r1 = t1.join()
r2 = t2.join()
`)
	done := make(chan error, 1)
	go func() {
		_, err := s.e.Run(program)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("list comparison from two threads did not finish")
	}
	requireInt(t, s.global(t, "r1"), 300)
	requireInt(t, s.global(t, "r2"), 300)
}

func TestSpawnedThreadSharesGlobalsOnly(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
shared = [0]
fn run() {
    shared[0] = 42
    local = 1
    return local
}
h = spawn(run)
r = h.join()
again = h.join()
id = h.id()
`)
	requireInt(t, s.global(t, "r"), 1)
	requireInt(t, s.global(t, "again"), 1)
	first, _ := s.global(t, "shared").(*evaluator.List).At(0)
	requireInt(t, first, 42)
	_, leaked := s.e.Globals.Get("local")
	assert.False(t, leaked)
	assert.Len(t, s.global(t, "id").(*evaluator.String).Value, 36)
}

func TestThreadErrorPropagatesToJoin(t *testing.T) {
	_, err := newSession().run(t, `
h = spawn(fn() { return 1 / 0 })
h.join()
`)
	requireKind(t, err, evaluator.NumericDomain)
}

func TestThreadPool(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
pool = std.thread.ThreadPool()
for i in range(3) {
    pool.spawn(fn() { return 10 })
}
size = pool.len()
results = pool.join()
`)
	requireInt(t, s.global(t, "size"), 3)
	assert.Equal(t, "[10, 10, 10]", s.global(t, "results").Inspect())
}

func TestSleep(t *testing.T) {
	s := newSession()
	start := time.Now()
	s.mustRun(t, "sleep(20)\nstd.time.sleep(1.5)\nnow = std.time.now_ms()")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Greater(t, s.global(t, "now").(*evaluator.Integer).Value, int64(0))
}

func TestStdFS(t *testing.T) {
	s := newSession()
	require.NoError(t, util.WriteFile(s.e.FS, "/input.txt", []byte("from go"), 0o644))

	s.mustRun(t, `
std.fs.write_text("/notes.txt", "hello")
ok = std.fs.exists("/notes.txt")
nope = std.fs.exists("/missing.txt")
txt = std.fs.read_text("/notes.txt")
given = std.fs.read_text("/input.txt")
f = std.fs.open("/log.txt")
f.write("abc")
f.close()
back = std.fs.read_text("/log.txt")
std.fs.remove("/notes.txt")
gone = !std.fs.exists("/notes.txt")
names = std.fs.list_dir("/")
`)
	assert.Equal(t, evaluator.TRUE, s.global(t, "ok"))
	assert.Equal(t, evaluator.FALSE, s.global(t, "nope"))
	assert.Equal(t, "hello", s.global(t, "txt").(*evaluator.String).Value)
	assert.Equal(t, "from go", s.global(t, "given").(*evaluator.String).Value)
	assert.Equal(t, "abc", s.global(t, "back").(*evaluator.String).Value)
	assert.Equal(t, evaluator.TRUE, s.global(t, "gone"))
	assert.Equal(t, `["input.txt", "log.txt"]`, s.global(t, "names").Inspect())

	data, err := util.ReadFile(s.e.FS, "/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
}

func TestStdFSErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		kind  evaluator.ErrorKind
	}{
		{"read_missing", `std.fs.read_text("/nope.txt")`, evaluator.RuntimeFailure},
		{"path_type", `std.fs.exists(1)`, evaluator.CapabilityMismatch},
		{"closed_file", "f = std.fs.open(\"/x\")\nf.close()\nf.read()", evaluator.RuntimeFailure},
		{"unknown_member", `std.fs.delete_all()`, evaluator.UnresolvedName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newSession().run(t, tc.input)
			requireKind(t, err, tc.kind)
		})
	}
}

func TestStdTest(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
std.test.assert(1 < 2)
std.test.assert_eq([1, 2], [1, 2])
std.test.assert_ne(Some(1), None)
`)

	_, err := newSession().run(t, "std.test.assert_eq(1, 2)")
	rtErr := requireKind(t, err, evaluator.AssertionFailed)
	assert.Equal(t, "assertion failed: 1 != 2", rtErr.Message)

	_, err = newSession().run(t, `std.test.assert_ne("a", "a")`)
	rtErr = requireKind(t, err, evaluator.AssertionFailed)
	assert.Equal(t, `assertion failed: "a" == "a"`, rtErr.Message)

	_, err = newSession().run(t, "std.test.assert(false)")
	requireKind(t, err, evaluator.AssertionFailed)
}

func TestBuiltinConversions(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
a = str(12)
b = repr("q")
c = str("q")
d = len("héllo")
e = len(range(3, 7))
f = repr(std)
`)
	assert.Equal(t, "12", s.global(t, "a").(*evaluator.String).Value)
	assert.Equal(t, `"q"`, s.global(t, "b").(*evaluator.String).Value)
	assert.Equal(t, "q", s.global(t, "c").(*evaluator.String).Value)
	requireInt(t, s.global(t, "d"), 5)
	requireInt(t, s.global(t, "e"), 4)
	assert.Equal(t, "<module std>", s.global(t, "f").(*evaluator.String).Value)
}
