package lisp

// Config is a function that configures a root environment or its runtime.
type Config func(env *Env) error

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing the stack height to exceed n.  A value of zero
// removes the limit, leaving recursion bounded only by the Go runtime.
func WithMaximumStackHeight(n int) Config {
	return func(env *Env) error {
		if n < 0 {
			return Errorf(ErrnoInvalid, "negative maximum stack height: %d", n)
		}
		env.runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.runtime.Reader = r
		return nil
	}
}
