package lisp

import (
	"fmt"
	"math"

	"github.com/ltrel/liasp/lisp/plist"
)

// DefaultMaxStackHeight is the call depth allowed by NewGlobalEnv unless a
// Config overrides it.
const DefaultMaxStackHeight = 10000

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() []string
	Fun() LBuiltin
}

type langBuiltin struct {
	name    string
	formals []string
	fun     LBuiltin
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() []string {
	return fun.formals
}

// Fun returns the builtin wrapped with an argument count check derived from
// its formals.
func (fun *langBuiltin) Fun() LBuiltin {
	nreq, variadic := countFormals(fun.formals)
	return func(args plist.List[LVal]) (LVal, error) {
		n := args.Len()
		if n < nreq || (!variadic && n > nreq) {
			if variadic {
				return LVal{}, berrf(ErrnoArity, fun.name, "at least %d arguments expected (got %d)", nreq, n)
			}
			return LVal{}, berrf(ErrnoArity, fun.name, "%d arguments expected (got %d)", nreq, n)
		}
		return fun.fun(args)
	}
}

func countFormals(formals []string) (n int, variadic bool) {
	for _, f := range formals {
		if f == VarArgSymbol {
			return n, true
		}
		n++
	}
	return n, false
}

var userBuiltins []*langBuiltin
var langBuiltins = []*langBuiltin{
	{"+", []string{VarArgSymbol, "x"}, builtinAdd},
	{"-", []string{VarArgSymbol, "x"}, builtinSub},
	{"*", []string{VarArgSymbol, "x"}, builtinMul},
	{"/", []string{VarArgSymbol, "x"}, builtinDiv},
	{"=", []string{"a", VarArgSymbol, "rest"}, builtinEq},
	{"<", []string{"a", VarArgSymbol, "rest"}, builtinLT},
	{">", []string{"a", VarArgSymbol, "rest"}, builtinGT},
	{"<=", []string{"a", VarArgSymbol, "rest"}, builtinLEq},
	{">=", []string{"a", VarArgSymbol, "rest"}, builtinGEq},
	{"not", []string{"expr"}, builtinNot},
	{"list", []string{VarArgSymbol, "args"}, builtinList},
	{"cons", []string{"head", "tail"}, builtinCons},
	{"head", []string{"lis"}, builtinHead},
	{"tail", []string{"lis"}, builtinTail},
	{"empty?", []string{"lis"}, builtinEmptyP},
	{"length", []string{"lis"}, builtinLength},
}

var langConstants = []struct {
	name string
	v    LVal
}{
	{"pi", Number(math.Pi)},
	{"e", Number(math.E)},
}

// RegisterDefaultBuiltin adds the given function to the list returned by
// DefaultBuiltins.
func RegisterDefaultBuiltin(name string, formals []string, fn LBuiltin) {
	userBuiltins = append(userBuiltins, &langBuiltin{name, formals, fn})
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to an Env
// when Env.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	ops := make([]LBuiltinDef, len(langBuiltins)+len(userBuiltins))
	for i := range langBuiltins {
		ops[i] = langBuiltins[i]
	}
	offset := len(langBuiltins)
	for i := range userBuiltins {
		ops[offset+i] = userBuiltins[i]
	}
	return ops
}

// AddBuiltins defines each of funs in env.  If no funs are given the
// DefaultBuiltins are added.
func (env *Env) AddBuiltins(funs ...LBuiltinDef) error {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		err := env.Define(f.Name(), Fun(f.Name(), f.Fun()))
		if err != nil {
			return err
		}
	}
	return nil
}

// AddConstants defines the numeric constants of the language in env.
func (env *Env) AddConstants() error {
	for _, c := range langConstants {
		err := env.Define(c.name, c.v)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewGlobalEnv returns a root environment holding the default builtins and
// constants.  The call stack is limited to DefaultMaxStackHeight frames
// before configs are applied.
func NewGlobalEnv(configs ...Config) (*Env, error) {
	env := NewEnv(nil)
	env.runtime.Stack.MaxHeight = DefaultMaxStackHeight
	err := env.AddBuiltins()
	if err != nil {
		return nil, err
	}
	err = env.AddConstants()
	if err != nil {
		return nil, err
	}
	for _, config := range configs {
		err = config(env)
		if err != nil {
			return nil, err
		}
	}
	return env, nil
}

func berrf(errno Errno, bname string, format string, v ...interface{}) error {
	return Errorf(errno, "%s: %s", bname, fmt.Sprintf(format, v...))
}

func numbers(bname string, args plist.List[LVal]) ([]float32, error) {
	nums := make([]float32, 0, args.Len())
	for c := range args.All() {
		if c.Type != LNumber {
			return nil, berrf(ErrnoTypeError, bname, "argument is not a number: %v", c.Type)
		}
		nums = append(nums, c.Num)
	}
	return nums, nil
}

func builtinAdd(args plist.List[LVal]) (LVal, error) {
	nums, err := numbers("+", args)
	if err != nil {
		return LVal{}, err
	}
	var sum float32
	for _, x := range nums {
		sum += x
	}
	return Number(sum), nil
}

func builtinSub(args plist.List[LVal]) (LVal, error) {
	nums, err := numbers("-", args)
	if err != nil {
		return LVal{}, err
	}
	if len(nums) == 0 {
		return LVal{}, berrf(ErrnoTypeError, "-", "at least one argument expected")
	}
	diff := nums[0]
	for _, x := range nums[1:] {
		diff -= x
	}
	return Number(diff), nil
}

func builtinMul(args plist.List[LVal]) (LVal, error) {
	nums, err := numbers("*", args)
	if err != nil {
		return LVal{}, err
	}
	var prod float32 = 1
	for _, x := range nums {
		prod *= x
	}
	return Number(prod), nil
}

// builtinDiv follows IEEE 754; division by zero produces an infinity.
func builtinDiv(args plist.List[LVal]) (LVal, error) {
	nums, err := numbers("/", args)
	if err != nil {
		return LVal{}, err
	}
	if len(nums) == 0 {
		return LVal{}, berrf(ErrnoTypeError, "/", "at least one argument expected")
	}
	quo := nums[0]
	for _, x := range nums[1:] {
		quo /= x
	}
	return Number(quo), nil
}

func builtinEq(args plist.List[LVal]) (LVal, error) {
	first, _ := args.Head()
	if first.Type == LBool {
		for c := range args.All() {
			if c.Type != LBool {
				return LVal{}, berrf(ErrnoTypeError, "=", "argument is not a bool: %v", c.Type)
			}
			if c.Bool != first.Bool {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	}
	return compareChain("=", args, func(a, b float32) bool { return a == b })
}

func builtinLT(args plist.List[LVal]) (LVal, error) {
	return compareChain("<", args, func(a, b float32) bool { return a < b })
}

func builtinGT(args plist.List[LVal]) (LVal, error) {
	return compareChain(">", args, func(a, b float32) bool { return a > b })
}

func builtinLEq(args plist.List[LVal]) (LVal, error) {
	return compareChain("<=", args, func(a, b float32) bool { return a <= b })
}

func builtinGEq(args plist.List[LVal]) (LVal, error) {
	return compareChain(">=", args, func(a, b float32) bool { return a >= b })
}

// compareChain returns true if cmp holds for every adjacent pair of args.
// All arguments are type checked even when an early pair fails.
func compareChain(bname string, args plist.List[LVal], cmp func(a, b float32) bool) (LVal, error) {
	nums, err := numbers(bname, args)
	if err != nil {
		return LVal{}, err
	}
	for i := 1; i < len(nums); i++ {
		if !cmp(nums[i-1], nums[i]) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func builtinNot(args plist.List[LVal]) (LVal, error) {
	v, _ := args.Head()
	return Bool(!v.IsTruthy()), nil
}

func builtinList(args plist.List[LVal]) (LVal, error) {
	return List(args), nil
}

func builtinCons(args plist.List[LVal]) (LVal, error) {
	it := args.Iter()
	it.Next()
	head := it.Value()
	it.Next()
	lis := it.Value()
	if lis.Type != LList {
		return LVal{}, berrf(ErrnoTypeError, "cons", "second argument is not a list: %v", lis.Type)
	}
	return List(lis.Cells.Prepend(head)), nil
}

func listArg(bname string, args plist.List[LVal]) (plist.List[LVal], error) {
	lis, _ := args.Head()
	if lis.Type != LList {
		return plist.List[LVal]{}, berrf(ErrnoTypeError, bname, "argument is not a list: %v", lis.Type)
	}
	return lis.Cells, nil
}

func builtinHead(args plist.List[LVal]) (LVal, error) {
	lis, err := listArg("head", args)
	if err != nil {
		return LVal{}, err
	}
	v, ok := lis.Head()
	if !ok {
		return LVal{}, berrf(ErrnoTypeError, "head", "list is empty")
	}
	return v, nil
}

func builtinTail(args plist.List[LVal]) (LVal, error) {
	lis, err := listArg("tail", args)
	if err != nil {
		return LVal{}, err
	}
	rest, ok := lis.Tail()
	if !ok {
		return LVal{}, berrf(ErrnoTypeError, "tail", "list is empty")
	}
	return List(rest), nil
}

func builtinEmptyP(args plist.List[LVal]) (LVal, error) {
	lis, err := listArg("empty?", args)
	if err != nil {
		return LVal{}, err
	}
	return Bool(lis.IsEmpty()), nil
}

func builtinLength(args plist.List[LVal]) (LVal, error) {
	lis, err := listArg("length", args)
	if err != nil {
		return LVal{}, err
	}
	return Number(float32(lis.Len())), nil
}
