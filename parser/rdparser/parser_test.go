package rdparser

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/ltrel/liasp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src    string
		expect string
		typ    lisp.LType
	}{
		{"7", "7", lisp.LNumber},
		{" 2.5 ", "2.5", lisp.LNumber},
		{".5", "0.5", lisp.LNumber},
		{"-3", "-3", lisp.LNumber},
		{"true", "true", lisp.LBool},
		{"false", "false", lisp.LBool},
		{"x", "x", lisp.LIdent},
		{"if", "#<special-form if>", lisp.LSpecialOp},
		{"()", "()", lisp.LList},
		{"(+(* 2 3)1)", "(+ (* 2 3) 1)", lisp.LList},
		{"(lambda (a b)\n  (+ a b))", "(#<special-form lambda> (a b) (+ a b))", lisp.LList},
		{"((()))", "((()))", lisp.LList},
		{strings.Repeat("9", 41), "+Inf", lisp.LNumber},
		{"-" + strings.Repeat("9", 41), "-Inf", lisp.LNumber},
	}
	for _, test := range tests {
		v, err := Parse(test.src)
		if !assert.NoError(t, err, "source %q", test.src) {
			continue
		}
		assert.Equal(t, test.typ, v.Type, "source %q", test.src)
		assert.Equal(t, test.expect, v.String(), "source %q", test.src)
	}
}

func TestParseSpecialForms(t *testing.T) {
	v, err := Parse("(def x 1)")
	require.NoError(t, err)
	head, ok := v.Cells.Head()
	require.True(t, ok)
	assert.Equal(t, lisp.LSpecialOp, head.Type)
	assert.Equal(t, "def", head.Str)
	assert.NotNil(t, head.Special)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		errno lisp.Errno
	}{
		{"empty", "", lisp.ErrnoParse},
		{"blank", "  \n", lisp.ErrnoParse},
		{"unmatched close", ")", lisp.ErrnoParse},
		{"extra close", "(+ 1 2))", lisp.ErrnoParse},
		{"trailing expression", "1 2", lisp.ErrnoParse},
		{"dot", "(a . b)", lisp.ErrnoParse},
		{"unclosed", "(+ 1", lisp.ErrnoParse},
		{"bad character", "(+ 1 @)", lisp.ErrnoTokenize},
		{"missing separator", "(+ 1 2x)", lisp.ErrnoTokenize},
		{"trailing bad character", "(+ 1 2) @", lisp.ErrnoTokenize},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(test.src)
			if assert.Error(t, err) {
				assert.Equal(t, test.errno, lisp.ErrnoOf(err), "error: %v", err)
			}
		})
	}
}

func TestIncomplete(t *testing.T) {
	_, err := Parse("(def f (lambda (x)")
	require.Error(t, err)
	assert.True(t, IsIncomplete(err))
	assert.True(t, errors.Is(err, lisp.ErrnoParse))
	assert.Contains(t, err.Error(), "unmatched (")

	_, err = Parse("(+ 1 2))")
	require.Error(t, err)
	assert.False(t, IsIncomplete(err))

	_, err = Parse("(+ 1 @")
	require.Error(t, err)
	assert.False(t, IsIncomplete(err))
}

func TestReadProgram(t *testing.T) {
	exprs, err := NewReader().Read("prog.lisp", strings.NewReader("(def x 5)\n(+ x 1)\n7"))
	require.NoError(t, err)
	require.Len(t, exprs, 3)
	assert.Equal(t, "(#<special-form def> x 5)", exprs[0].String())
	assert.Equal(t, "(+ x 1)", exprs[1].String())
	assert.Equal(t, "7", exprs[2].String())

	exprs, err = NewReader().Read("empty.lisp", strings.NewReader(""))
	assert.NoError(t, err)
	assert.Len(t, exprs, 0)

	_, err = NewReader().Read("bad.lisp", strings.NewReader("(+ 1 2)\n)"))
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "bad.lisp:2:1")
	}
}

var randomAtoms = []string{
	"0", "1", "2.5", ".5", "-3", "x", "foo?", "a.b", "+", "-", "<=",
	"true", "false", "def", "lambda", "if",
}

// randomExpr writes a random balanced expression to b.
func randomExpr(rng *rand.Rand, b *strings.Builder, depth int) {
	if depth <= 0 || rng.Intn(3) == 0 {
		b.WriteString(randomAtoms[rng.Intn(len(randomAtoms))])
		return
	}
	b.WriteString("(")
	n := rng.Intn(5)
	for i := 0; i < n; i++ {
		if i > 0 || rng.Intn(2) == 0 {
			b.WriteString(strings.Repeat(" ", 1+rng.Intn(2)))
		}
		randomExpr(rng, b, depth-1)
	}
	b.WriteString(")")
}

func TestParseRandomBalanced(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		var b strings.Builder
		randomExpr(rng, &b, 6)
		src := b.String()
		first, err := Parse(src)
		require.NoError(t, err, "source %q", src)
		second, err := Parse(src)
		require.NoError(t, err, "source %q", src)
		assert.True(t, lisp.Equal(first, second), "nondeterministic parse of %q", src)
	}
}

func TestParseDeepNesting(t *testing.T) {
	const depth = 10000
	src := strings.Repeat("(", depth) + strings.Repeat(")", depth)
	v, err := Parse(src)
	require.NoError(t, err)
	n := 0
	for v.Type == lisp.LList && !v.Cells.IsEmpty() {
		v, _ = v.Cells.Head()
		n++
	}
	assert.Equal(t, depth-1, n)
}
