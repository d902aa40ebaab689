package lisp

import (
	"errors"
	"fmt"
)

// Errno is an error code identifying the kind of an interpreter failure.
// Errno implements the error interface so that it can be used as the target
// of errors.Is.
//
//		if errors.Is(err, lisp.ErrnoUndefinedIdentifier) { ... }
type Errno int

// Possible Errno values
const (
	ErrnoInvalid Errno = iota
	ErrnoTokenize
	ErrnoParse
	ErrnoUndefinedIdentifier
	ErrnoAlreadyDefined
	ErrnoTypeError
	ErrnoNotCallable
	ErrnoArity
	ErrnoMissingClause
	ErrnoStackOverflow
	numErrno
)

var errnoStrings = []string{
	ErrnoInvalid:             "error",
	ErrnoTokenize:            "tokenize error",
	ErrnoParse:               "parse error",
	ErrnoUndefinedIdentifier: "undefined identifier",
	ErrnoAlreadyDefined:      "identifier already defined",
	ErrnoTypeError:           "type error",
	ErrnoNotCallable:         "not callable",
	ErrnoArity:               "arity error",
	ErrnoMissingClause:       "missing clause",
	ErrnoStackOverflow:       "stack overflow",
}

func (n Errno) String() string {
	if n < 0 || n >= numErrno {
		return errnoStrings[ErrnoInvalid]
	}
	return errnoStrings[n]
}

// Error implements the error interface.
func (n Errno) Error() string {
	return n.String()
}

// Error is an interpreter failure.  Error values are returned unmodified
// through every enclosing evaluation.
type Error struct {
	Errno Errno
	Msg   string
	// Stack is a copy of the call stack at the point the error was raised,
	// if the error was raised during evaluation.
	Stack *CallStack
	// Err is an optional underlying cause.
	Err error
}

// Errorf returns an *Error of kind errno with a formatted message.
func Errorf(errno Errno, format string, v ...interface{}) error {
	return &Error{
		Errno: errno,
		Msg:   fmt.Sprintf(format, v...),
	}
}

// WrapError returns an *Error of kind errno whose cause is err.
func WrapError(errno Errno, err error, format string, v ...interface{}) error {
	return &Error{
		Errno: errno,
		Msg:   fmt.Sprintf(format, v...),
		Err:   err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Errno.String()
	}
	return e.Errno.String() + ": " + e.Msg
}

// Unwrap returns the underlying cause of e, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is returns true when target is the Errno of e.
func (e *Error) Is(target error) bool {
	n, ok := target.(Errno)
	return ok && n == e.Errno
}

// ErrnoOf returns the Errno of the first *Error in err's chain.  ErrnoOf
// returns ErrnoInvalid if err is not an interpreter error.
func ErrnoOf(err error) Errno {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr.Errno
	}
	return ErrnoInvalid
}
