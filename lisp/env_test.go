package lisp

import (
	"errors"
	"testing"

	"github.com/ltrel/liasp/lisp/plist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvShadowing(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("x", Number(5)))
	require.NoError(t, root.Define("y", Number(3)))
	child := root.Extend()
	require.NoError(t, child.Define("y", Number(2)))

	v, ok := child.Lookup("x")
	if assert.True(t, ok) {
		assert.Equal(t, Number(5).Num, v.Num)
	}
	v, ok = child.Lookup("y")
	if assert.True(t, ok) {
		assert.Equal(t, float32(2), v.Num)
	}
	_, ok = child.Lookup("z")
	assert.False(t, ok)

	// the parent is unchanged by the child's definition
	v, ok = root.Lookup("y")
	if assert.True(t, ok) {
		assert.Equal(t, float32(3), v.Num)
	}
	assert.Equal(t, 1, child.Len())
	assert.Equal(t, 2, root.Len())
}

func TestEnvRedefine(t *testing.T) {
	env := NewEnv(nil)
	require.NoError(t, env.Define("x", Number(8)))
	err := env.Define("x", Number(2))
	if assert.Error(t, err) {
		assert.True(t, errors.Is(err, ErrnoAlreadyDefined))
	}
	v, ok := env.Lookup("x")
	if assert.True(t, ok) {
		assert.Equal(t, float32(8), v.Num)
	}
}

func TestEnvAssign(t *testing.T) {
	root := NewEnv(nil)
	require.NoError(t, root.Define("x", Number(1)))
	mid := root.Extend()
	leaf := mid.Extend()

	require.NoError(t, leaf.Assign("x", Number(2)))
	v, _ := root.Lookup("x")
	assert.Equal(t, float32(2), v.Num)
	assert.Equal(t, 0, leaf.Len(), "assign created a binding")

	err := leaf.Assign("nope", Number(0))
	assert.Equal(t, ErrnoUndefinedIdentifier, ErrnoOf(err))
	_, ok := leaf.Lookup("nope")
	assert.False(t, ok)
}

func TestEnvParent(t *testing.T) {
	root := NewEnv(nil)
	_, ok := root.Parent()
	assert.False(t, ok)
	child := root.Extend()
	p, ok := child.Parent()
	if assert.True(t, ok) {
		assert.Same(t, root, p)
	}
	assert.Same(t, root.Runtime(), child.Runtime())
	assert.NotSame(t, root.Runtime(), NewEnv(nil).Runtime())
}

func TestEnvGet(t *testing.T) {
	env := NewEnv(nil)
	_, err := env.Get("missing")
	if assert.Error(t, err) {
		assert.Equal(t, "undefined identifier: missing", err.Error())
	}
}

// A closure sees later assignments to the bindings it captured.
func TestClosureCapturesByReference(t *testing.T) {
	env, err := NewGlobalEnv()
	require.NoError(t, err)
	_, err = env.Eval(SExpr(mustSpecialOp(t, "def"), Ident("x"), Number(1)))
	require.NoError(t, err)
	_, err = env.Eval(SExpr(mustSpecialOp(t, "def"), Ident("f"),
		SExpr(mustSpecialOp(t, "lambda"), SExpr(), Ident("x"))))
	require.NoError(t, err)

	require.NoError(t, env.Assign("x", Number(99)))
	v, err := env.Eval(SExpr(Ident("f")))
	require.NoError(t, err)
	assert.Equal(t, "99", v.String())
}

func TestClosureOutlivesScope(t *testing.T) {
	env, err := NewGlobalEnv()
	require.NoError(t, err)
	scope := env.Extend()
	require.NoError(t, scope.Define("secret", Number(42)))
	f, err := scope.Eval(SExpr(mustSpecialOp(t, "lambda"), SExpr(), Ident("secret")))
	require.NoError(t, err)
	scope = nil

	v, err := env.Call(f, SExpr().Cells)
	require.NoError(t, err)
	assert.Equal(t, float32(42), v.Num)
}

func TestEvalSelfEvaluating(t *testing.T) {
	env := NewEnv(nil)
	fun := Fun("id", func(args plist.List[LVal]) (LVal, error) { return Number(0), nil })
	for _, v := range []LVal{Number(0), Bool(false), fun, mustSpecialOp(t, "if")} {
		got, err := env.Eval(v)
		require.NoError(t, err)
		assert.True(t, Equal(v, got), "%v", v)
	}
}

func TestEvalArgumentOrder(t *testing.T) {
	env := NewEnv(nil)
	var order []string
	record := func(name string) LVal {
		return Fun(name, func(plist.List[LVal]) (LVal, error) {
			order = append(order, name)
			return Number(0), nil
		})
	}
	for _, name := range []string{"f", "a", "b"} {
		require.NoError(t, env.Define(name, record(name)))
	}
	require.NoError(t, env.Define("call", Fun("call", func(plist.List[LVal]) (LVal, error) {
		order = append(order, "call")
		return Bool(true), nil
	})))
	_, err := env.Eval(SExpr(Ident("call"), SExpr(Ident("a")), SExpr(Ident("b"))))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "call"}, order)
}

func TestStackGuard(t *testing.T) {
	env, err := NewGlobalEnv(WithMaximumStackHeight(20))
	require.NoError(t, err)
	def := mustSpecialOp(t, "def")
	lambda := mustSpecialOp(t, "lambda")
	_, err = env.Eval(SExpr(def, Ident("loop"),
		SExpr(lambda, SExpr(), SExpr(Ident("loop")))))
	require.NoError(t, err)

	_, err = env.Eval(SExpr(Ident("loop")))
	require.Error(t, err)
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, ErrnoStackOverflow, lerr.Errno)
	if assert.NotNil(t, lerr.Stack) {
		assert.Equal(t, 20, lerr.Stack.Height())
		assert.Equal(t, "loop", lerr.Stack.Top().Name)
	}
	assert.Equal(t, 0, env.Runtime().Stack.Height())
}

func TestErrorCarriesStack(t *testing.T) {
	env, err := NewGlobalEnv()
	require.NoError(t, err)
	_, err = env.Eval(SExpr(Ident("+"), Number(1), SExpr(Ident("-"), Ident("nope"))))
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, ErrnoUndefinedIdentifier, lerr.Errno)
	if assert.NotNil(t, lerr.Stack) {
		assert.Equal(t, []string{"+", "-"}, lerr.Stack.Names())
	}
}

func TestNewGlobalEnv(t *testing.T) {
	env, err := NewGlobalEnv()
	require.NoError(t, err)
	for _, name := range []string{"+", "-", "*", "/", "=", "list", "pi", "e"} {
		_, ok := env.Lookup(name)
		assert.True(t, ok, name)
	}
	for _, name := range []string{"def", "lambda", "if"} {
		_, ok := env.Lookup(name)
		assert.False(t, ok, name)
	}
	assert.Equal(t, DefaultMaxStackHeight, env.Runtime().Stack.MaxHeight)

	_, err = NewGlobalEnv(WithMaximumStackHeight(-1))
	assert.Error(t, err)
}

func TestLoadWithoutReader(t *testing.T) {
	env, err := NewGlobalEnv()
	require.NoError(t, err)
	_, err = env.LoadString("test", "(+ 1 2)")
	assert.Error(t, err)
}

func mustSpecialOp(t *testing.T, name string) LVal {
	t.Helper()
	op, ok := LookupSpecialOp(name)
	require.True(t, ok, name)
	return op
}
