package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pettylang/petty/internal/fuzzgen"
)

// FuzzParser checks that no input, valid or not, panics the lexer or
// parser.
func FuzzParser(f *testing.F) {
	f.Add("x = 1 + 2")
	f.Add("fn f(a, b) { return a * b }\nprint(f(2, 3))")
	f.Add("class P(x) { fn get(self) { return self.x } }\nP(1).get()")
	f.Add("if a { 1 } elif b { 2 } else { 3 }")
	f.Add("for i in range(3) { if i == 1 { continue } print(i) }")
	f.Add("x = 1.5e3")
	f.Add("x = [1, [2, (3 + ")
	f.Add("\"unterminated")
	f.Add("/* open comment")
	f.Add("((((((((((1))))))))))")
	f.Add("fn(")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 4096 {
			return
		}
		assert.NotPanics(t, func() { parse(input) })

		generated := fuzzgen.NewFromData([]byte(input)).GenerateProgram()
		assert.NotPanics(t, func() { parse(generated) }, "generated:\n%s", generated)
	})
}
