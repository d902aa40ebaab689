package lisp

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/ltrel/liasp/lisp/plist"
)

var envCount uint64

func getEnvID() uint {
	return uint(atomic.AddUint64(&envCount, 1))
}

// Runtime is state shared by a root environment and all of its descendants.
type Runtime struct {
	Stack  *CallStack
	Reader Reader
}

// Env is a lisp environment, one frame of a lexical scope chain.  An *Env is
// a handle; any number of handles (closures, child frames) may share a frame,
// which stays alive as long as one of them does.
//
// Env is not safe for concurrent use.  Hosts evaluating from several
// goroutines must give each evaluation exclusive access to the chain.
type Env struct {
	ID      uint
	scope   map[string]LVal
	parent  *Env
	runtime *Runtime
}

// NewEnv initializes and returns a new Env whose parent is parent.  If parent
// is nil the returned Env is a root with its own Runtime.
func NewEnv(parent *Env) *Env {
	var runtime *Runtime
	if parent != nil {
		runtime = parent.runtime
	} else {
		runtime = &Runtime{Stack: &CallStack{}}
	}
	return &Env{
		ID:      getEnvID(),
		scope:   make(map[string]LVal),
		parent:  parent,
		runtime: runtime,
	}
}

// Extend returns a new frame whose parent is env.  The receiver is not
// modified.
func (env *Env) Extend() *Env {
	return NewEnv(env)
}

// Parent returns the parent of env.  Parent returns false if env is a root.
func (env *Env) Parent() (*Env, bool) {
	if env.parent == nil {
		return nil, false
	}
	return env.parent, true
}

// Runtime returns the runtime shared by env's scope chain.
func (env *Env) Runtime() *Runtime {
	return env.runtime
}

// Len returns the number of bindings made directly in env.
func (env *Env) Len() int {
	return len(env.scope)
}

// Define binds name to v in env.  Define returns an error if name is already
// bound directly in env.  Bindings of name in ancestors of env are shadowed,
// not modified.
func (env *Env) Define(name string, v LVal) error {
	if _, ok := env.scope[name]; ok {
		return Errorf(ErrnoAlreadyDefined, "%s", name)
	}
	env.scope[name] = v
	return nil
}

// Assign rebinds name to v in the nearest frame, starting at env, in which
// name is bound.  Assign never creates a binding and returns an error if no
// frame binds name.
func (env *Env) Assign(name string, v LVal) error {
	for e := env; e != nil; e = e.parent {
		if _, ok := e.scope[name]; ok {
			e.scope[name] = v
			return nil
		}
	}
	return Errorf(ErrnoUndefinedIdentifier, "%s", name)
}

// Lookup returns the value bound to name in the nearest frame, starting at
// env, that binds it.  Lookup returns false if no frame binds name.
func (env *Env) Lookup(name string) (LVal, bool) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.scope[name]; ok {
			return v, true
		}
	}
	return LVal{}, false
}

// Get is like Lookup but returns an error for unbound identifiers.
func (env *Env) Get(name string) (LVal, error) {
	v, ok := env.Lookup(name)
	if !ok {
		return LVal{}, Errorf(ErrnoUndefinedIdentifier, "%s", name)
	}
	return v, nil
}

// LoadString parses source with the runtime's Reader and evaluates the
// expressions it contains in env.
func (env *Env) LoadString(name, source string) ([]LVal, error) {
	return env.Load(name, strings.NewReader(source))
}

// Load reads expressions from r using the runtime's Reader and evaluates them
// in order.  Load stops at the first error and returns the results of the
// expressions evaluated before it.
func (env *Env) Load(name string, r io.Reader) ([]LVal, error) {
	if env.runtime.Reader == nil {
		return nil, fmt.Errorf("no reader configured for environment")
	}
	exprs, err := env.runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	results := make([]LVal, 0, len(exprs))
	for _, expr := range exprs {
		v, err := env.Eval(expr)
		if err != nil {
			return results, err
		}
		results = append(results, v)
	}
	return results, nil
}

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.
func (env *Env) Eval(v LVal) (LVal, error) {
	switch v.Type {
	case LIdent:
		return env.Get(v.Str)
	case LList:
		return env.EvalSExpr(v)
	default:
		return v, nil
	}
}

// EvalSExpr evaluates the list s.  If the first element of s is a special
// form the form receives the remaining elements unevaluated.  Otherwise every
// element is evaluated, left to right, and the first result is called with
// the rest.
func (env *Env) EvalSExpr(s LVal) (LVal, error) {
	if s.Type != LList {
		return LVal{}, Errorf(ErrnoTypeError, "not a list: %v", s.Type)
	}
	head, ok := s.Cells.Head()
	if !ok {
		return LVal{}, Errorf(ErrnoNotCallable, "cannot evaluate an empty list")
	}
	stack := env.runtime.Stack
	err := stack.Push(frameName(head))
	if err != nil {
		return LVal{}, err
	}
	defer stack.Pop()
	v, err := env.evalSExpr(head, s)
	if err != nil {
		return LVal{}, attachStack(err, stack)
	}
	return v, nil
}

func (env *Env) evalSExpr(head LVal, s LVal) (LVal, error) {
	if head.Type == LSpecialOp {
		rest, _ := s.Cells.Tail()
		return head.Special(env, rest)
	}

	cells := make([]LVal, 0, s.Cells.Len())
	for c := range s.Cells.All() {
		x, err := env.Eval(c)
		if err != nil {
			return LVal{}, err
		}
		cells = append(cells, x)
	}
	evaled := plist.Of(cells...)
	f, _ := evaled.Head()
	args, _ := evaled.Tail()
	if f.Type != LFun {
		return LVal{}, Errorf(ErrnoNotCallable, "first element of expression is not a function: %v", f)
	}
	return env.Call(f, args)
}

// Call invokes LFun fun with the list args.
func (env *Env) Call(fun LVal, args plist.List[LVal]) (LVal, error) {
	if fun.Type != LFun {
		return LVal{}, Errorf(ErrnoNotCallable, "%v", fun)
	}
	if fun.Builtin != nil {
		return fun.Builtin(args)
	}
	c := fun.Closure
	callenv := c.Env.Extend()
	rest := args
	for _, param := range c.Params {
		arg, ok := rest.Head()
		if !ok {
			return LVal{}, Errorf(ErrnoArity, "function expects %d arguments (got %d)",
				len(c.Params), args.Len())
		}
		err := callenv.Define(param, arg)
		if err != nil {
			return LVal{}, err
		}
		rest, _ = rest.Tail()
	}
	// NOTE:  Arguments beyond len(c.Params) are ignored rather than rejected.
	return callenv.Eval(c.Body)
}

// attachStack records a copy of stack on err if err is an *Error that does
// not have one yet.  The innermost evaluation to see the error wins.
func attachStack(err error, stack *CallStack) error {
	lerr, ok := err.(*Error)
	if ok && lerr.Stack == nil {
		lerr.Stack = stack.Copy()
	}
	return err
}

func frameName(head LVal) string {
	switch head.Type {
	case LIdent, LSpecialOp:
		return head.Str
	case LFun:
		if head.Closure != nil {
			return fmt.Sprintf("anon%d", head.Closure.Env.ID)
		}
		return head.Str
	case LList:
		return "anonymous-function"
	default:
		return head.String()
	}
}
