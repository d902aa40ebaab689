package lisp

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ltrel/liasp/lisp/plist"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	LInvalid LType = iota
	LNumber
	LBool
	LIdent
	LList
	LFun
	LSpecialOp
)

var ltypeStrings = []string{
	LInvalid:   "INVALID",
	LNumber:    "number",
	LBool:      "bool",
	LIdent:     "identifier",
	LList:      "list",
	LFun:       "function",
	LSpecialOp: "special-form",
}

func (t LType) String() string {
	if int(t) >= len(ltypeStrings) {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LBuiltin is a native function.  It receives its arguments already
// evaluated.
type LBuiltin func(args plist.List[LVal]) (LVal, error)

// LSpecial is the routine behind a special form.  It receives its arguments
// unevaluated along with the environment of the form and decides what to
// evaluate itself.
type LSpecial func(env *Env, args plist.List[LVal]) (LVal, error)

// Closure is a user-defined function created by the lambda special form.
type Closure struct {
	// Env is the environment captured when the lambda was evaluated.  It is
	// shared, not copied, so later changes to captured bindings are visible
	// to the closure.
	Env    *Env
	Params []string
	Body   LVal
}

// LVal is a lisp value.  LVal is a tagged union whose active variant is
// given by Type.  Copying an LVal is constant time; lists and closures share
// their underlying data.
type LVal struct {
	Type LType

	// Num holds LNumber values.
	Num float32
	// Bool holds LBool values.
	Bool bool
	// Str holds the name of an LIdent, or the name of a builtin or special
	// form.
	Str string
	// Cells holds the elements of an LList.
	Cells plist.List[LVal]

	// Variables needed for function values.  Exactly one is set for LFun
	// values; Special is set for LSpecialOp.
	Builtin LBuiltin
	Closure *Closure
	Special LSpecial
}

// Number returns an LVal representing the number x.
func Number(x float32) LVal {
	return LVal{
		Type: LNumber,
		Num:  x,
	}
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) LVal {
	return LVal{
		Type: LBool,
		Bool: b,
	}
}

// Ident returns an LVal representing the identifier name.
func Ident(name string) LVal {
	return LVal{
		Type: LIdent,
		Str:  name,
	}
}

// List returns an LVal containing the list cells.
func List(cells plist.List[LVal]) LVal {
	return LVal{
		Type:  LList,
		Cells: cells,
	}
}

// SExpr returns a list LVal with the given elements in order.
func SExpr(cells ...LVal) LVal {
	return List(plist.Of(cells...))
}

// Fun returns an LVal representing the native function fn.
func Fun(name string, fn LBuiltin) LVal {
	return LVal{
		Type:    LFun,
		Str:     name,
		Builtin: fn,
	}
}

// Lambda returns a function that binds params to its arguments in a child
// of env and evaluates body there.
func Lambda(env *Env, params []string, body LVal) LVal {
	return LVal{
		Type: LFun,
		Closure: &Closure{
			Env:    env,
			Params: params,
			Body:   body,
		},
	}
}

// SpecialOp returns an LVal representing a special form.
func SpecialOp(name string, fn LSpecial) LVal {
	return LVal{
		Type:    LSpecialOp,
		Str:     name,
		Special: fn,
	}
}

// IsTruthy returns false only for the boolean false.  Every other value,
// including the number 0 and the empty list, is true.
func (v LVal) IsTruthy() bool {
	return !(v.Type == LBool && !v.Bool)
}

// IsClosure returns true if v is a user-defined function.
func (v LVal) IsClosure() bool {
	return v.Type == LFun && v.Closure != nil
}

// Equal returns true if a and b are the same value.  Numbers, booleans and
// identifiers compare by value, lists compare element-wise, functions and
// special forms compare by identity.
func Equal(a, b LVal) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LNumber:
		return a.Num == b.Num
	case LBool:
		return a.Bool == b.Bool
	case LIdent:
		return a.Str == b.Str
	case LList:
		if a.Cells.Len() != b.Cells.Len() {
			return false
		}
		ia, ib := a.Cells.Iter(), b.Cells.Iter()
		for ia.Next() && ib.Next() {
			if !Equal(ia.Value(), ib.Value()) {
				return false
			}
		}
		return true
	case LFun:
		if a.Closure != nil || b.Closure != nil {
			return a.Closure == b.Closure
		}
		return a.Str == b.Str
	case LSpecialOp:
		return a.Str == b.Str
	default:
		return false
	}
}

func (v LVal) String() string {
	switch v.Type {
	case LNumber:
		return strconv.FormatFloat(float64(v.Num), 'f', -1, 32)
	case LBool:
		return strconv.FormatBool(v.Bool)
	case LIdent:
		return v.Str
	case LList:
		return exprString(v.Cells, "(", ")")
	case LFun:
		if v.Closure != nil {
			return fmt.Sprintf("#<lambda (%s)>", strings.Join(v.Closure.Params, " "))
		}
		return fmt.Sprintf("#<builtin %s>", v.Str)
	case LSpecialOp:
		return fmt.Sprintf("#<special-form %s>", v.Str)
	default:
		return fmt.Sprintf("%#v", v)
	}
}

func exprString(cells plist.List[LVal], left string, right string) string {
	if cells.IsEmpty() {
		return left + right
	}
	var buf bytes.Buffer
	buf.WriteString(left)
	i := 0
	for c := range cells.All() {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(c.String())
		i++
	}
	buf.WriteString(right)
	return buf.String()
}
