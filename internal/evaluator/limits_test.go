package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettylang/petty/internal/evaluator"
)

func TestRepetitionLimits(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"str_max_int", `"ab" * 9223372036854775807`},
		{"str_wraps_int", `"abc" * 4611686018427387904`},
		{"str_too_long", `"x" * 100000000`},
		{"list_max_int", `[1, 2] * 9223372036854775807`},
		{"list_too_long", `[0] * 100000000`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() {
				_, err = newSession().run(t, tc.input)
			})
			rtErr := requireKind(t, err, evaluator.NumericDomain)
			assert.Contains(t, rtErr.Message, "exceeds the maximum length")
		})
	}

	s := newSession()
	s.mustRun(t, `a = "ab" * 0; b = [1] * -3; c = [] * 9223372036854775807`)
	assert.Equal(t, "", s.global(t, "a").(*evaluator.String).Value)
	assert.Equal(t, "[]", s.global(t, "b").Inspect())
	assert.Equal(t, "[]", s.global(t, "c").Inspect())
}

func TestSelfContainingList(t *testing.T) {
	s := newSession()
	s.e.MaxDepth = 500
	s.mustRun(t, "xs = [1]\nxs.push(xs)\nys = [1]\nys.push(ys)\nsame = xs == xs")
	assert.Equal(t, "[1, [...]]", s.global(t, "xs").Inspect())
	assert.Equal(t, evaluator.TRUE, s.global(t, "same"))

	res, err := s.run(t, "zs = [0]\nzs.push(Some(zs))\nzs")
	require.NoError(t, err)
	assert.Equal(t, "[0, Some([...])]", res[len(res)-1].Inspect())

	cases := map[string]string{
		"print": "print(xs)",
		"repr":  "repr(xs)",
		"eq":    "xs == ys",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() {
				_, err = s.run(t, input)
			})
			rtErr := requireKind(t, err, evaluator.RuntimeFailure)
			assert.Contains(t, rtErr.Message, "maximum recursion depth exceeded")
		})
	}
}

func TestAbs(t *testing.T) {
	s := newSession()
	s.mustRun(t, `
neg = -7
a = neg.abs()
b = 3.abs()
f = -2.5
c = f.abs()
`)
	requireInt(t, s.global(t, "a"), 7)
	requireInt(t, s.global(t, "b"), 3)
	assert.Equal(t, 2.5, s.global(t, "c").(*evaluator.Float).Value)

	_, err := newSession().run(t, "m = -9223372036854775807 - 1\nm.abs()")
	rtErr := requireKind(t, err, evaluator.NumericDomain)
	assert.Contains(t, rtErr.Message, "overflows Int")
}

func TestRangeSum(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int64
	}{
		{"empty", "range(5, 5).sum()", 0},
		{"reversed", "range(5, 1).sum()", 0},
		{"negative", "range(-3, 3).sum()", -3},
		{"large", "range(4294967296).sum()", 9223372034707292160},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := newSession().run(t, tc.input)
			require.NoError(t, err)
			requireInt(t, res[0], tc.want)
		})
	}

	for _, input := range []string{
		"range(9223372036854775807).sum()",
		"range(-9223372036854775807, 0).sum()",
		"range(4294967298).sum()",
	} {
		_, err := newSession().run(t, input)
		rtErr := requireKind(t, err, evaluator.NumericDomain)
		assert.Contains(t, rtErr.Message, "overflows Int")
	}
}

func TestStepLimit(t *testing.T) {
	s := newSession()
	s.e.MaxSteps = 2000
	_, err := s.run(t, "n = 0\nwhile true { n = n + 1 }")
	rtErr := requireKind(t, err, evaluator.RuntimeFailure)
	assert.Contains(t, rtErr.Message, "step limit of 2000 exceeded")

	n := s.global(t, "n").(*evaluator.Integer).Value
	assert.Greater(t, n, int64(0))
	assert.Less(t, n, int64(2000))
}

func TestStepLimitSharedWithThreads(t *testing.T) {
	s := newSession()
	s.e.MaxSteps = 5000
	_, err := s.run(t, `
h = spawn(fn() {
    while true { }
})
h.join()
`)
	rtErr := requireKind(t, err, evaluator.RuntimeFailure)
	assert.Contains(t, rtErr.Message, "step limit")
}
