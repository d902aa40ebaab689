package lisp

import (
	"github.com/ltrel/liasp/lisp/plist"
)

type langSpecialOp struct {
	name    string
	formals []string
	fun     LSpecial
}

var langSpecialOps = []*langSpecialOp{
	{"def", []string{"name", "expr"}, opDef},
	{"lambda", []string{"formals", "expr"}, opLambda},
	{"if", []string{"condition", "then", "else"}, opIf},
}

// DefaultSpecialOps returns the special forms of the language.  Special forms
// are reserved words and are never bound in an environment; parsers produce
// them directly.
func DefaultSpecialOps() []LVal {
	ops := make([]LVal, len(langSpecialOps))
	for i, op := range langSpecialOps {
		ops[i] = SpecialOp(op.name, op.fun)
	}
	return ops
}

// LookupSpecialOp returns the special form with the given name.
// LookupSpecialOp returns false if name is not a reserved word naming a
// special form.
func LookupSpecialOp(name string) (LVal, bool) {
	for _, op := range langSpecialOps {
		if op.name == name {
			return SpecialOp(op.name, op.fun), true
		}
	}
	return LVal{}, false
}

// SpecialOpFormals returns the names of the arguments taken by the special
// form name, for documentation.
func SpecialOpFormals(name string) ([]string, bool) {
	for _, op := range langSpecialOps {
		if op.name == name {
			formals := make([]string, len(op.formals))
			copy(formals, op.formals)
			return formals, true
		}
	}
	return nil, false
}

func opDef(env *Env, args plist.List[LVal]) (LVal, error) {
	it := args.Iter()
	if !it.Next() {
		return LVal{}, Errorf(ErrnoTypeError, "def: missing identifier")
	}
	name := it.Value()
	if name.Type != LIdent {
		return LVal{}, Errorf(ErrnoTypeError, "def: first argument is not an identifier: %v", name.Type)
	}
	if !it.Next() {
		return LVal{}, Errorf(ErrnoTypeError, "def: missing value for %s", name.Str)
	}
	v, err := env.Eval(it.Value())
	if err != nil {
		return LVal{}, err
	}
	err = env.Define(name.Str, v)
	if err != nil {
		return LVal{}, err
	}
	return Ident(name.Str), nil
}

func opLambda(env *Env, args plist.List[LVal]) (LVal, error) {
	it := args.Iter()
	if !it.Next() {
		return LVal{}, Errorf(ErrnoTypeError, "lambda: missing parameter list")
	}
	formals := it.Value()
	if formals.Type != LList {
		return LVal{}, Errorf(ErrnoTypeError, "lambda: first argument is not a list: %v", formals.Type)
	}
	params := make([]string, 0, formals.Cells.Len())
	seen := make(map[string]bool, formals.Cells.Len())
	for p := range formals.Cells.All() {
		if p.Type != LIdent {
			return LVal{}, Errorf(ErrnoTypeError, "lambda: non-identifier in parameter list: %v", p)
		}
		if seen[p.Str] {
			return LVal{}, Errorf(ErrnoTypeError, "lambda: duplicate parameter: %s", p.Str)
		}
		seen[p.Str] = true
		params = append(params, p.Str)
	}
	if !it.Next() {
		return LVal{}, Errorf(ErrnoTypeError, "lambda: missing body")
	}
	// The closure captures a fresh child of env rather than env itself.
	// Bindings made by the body never land in the defining scope.
	return Lambda(env.Extend(), params, it.Value()), nil
}

func opIf(env *Env, args plist.List[LVal]) (LVal, error) {
	it := args.Iter()
	if !it.Next() {
		return LVal{}, Errorf(ErrnoMissingClause, "missing conditional")
	}
	cond := it.Value()
	if !it.Next() {
		return LVal{}, Errorf(ErrnoMissingClause, "missing then clause")
	}
	then := it.Value()
	if !it.Next() {
		return LVal{}, Errorf(ErrnoMissingClause, "missing else clause")
	}
	els := it.Value()

	ok, err := env.Eval(cond)
	if err != nil {
		return LVal{}, err
	}
	if ok.IsTruthy() {
		return env.Eval(then)
	}
	return env.Eval(els)
}
