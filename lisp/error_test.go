package lisp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrno(t *testing.T) {
	assert.Equal(t, "type error", ErrnoTypeError.String())
	assert.Equal(t, "error", Errno(-1).String())
	assert.Equal(t, "error", numErrno.String())
	for n := ErrnoInvalid; n < numErrno; n++ {
		assert.NotEmpty(t, n.String())
	}
}

func TestErrorIs(t *testing.T) {
	err := Errorf(ErrnoArity, "expected %d", 2)
	assert.Equal(t, "arity error: expected 2", err.Error())
	assert.True(t, errors.Is(err, ErrnoArity))
	assert.False(t, errors.Is(err, ErrnoTypeError))

	wrapped := fmt.Errorf("session: %w", err)
	assert.True(t, errors.Is(wrapped, ErrnoArity))
	assert.Equal(t, ErrnoArity, ErrnoOf(wrapped))
	assert.Equal(t, ErrnoInvalid, ErrnoOf(io.EOF))
	assert.Equal(t, ErrnoInvalid, ErrnoOf(nil))
}

func TestWrapError(t *testing.T) {
	err := WrapError(ErrnoParse, io.ErrUnexpectedEOF, "input")
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.True(t, errors.Is(err, ErrnoParse))
	assert.Equal(t, "parse error: input", err.Error())
	assert.Equal(t, "not callable", (&Error{Errno: ErrnoNotCallable}).Error())
}

func TestCallStack(t *testing.T) {
	s := &CallStack{MaxHeight: 2}
	assert.Nil(t, s.Top())
	assert.NoError(t, s.Push("a"))
	assert.NoError(t, s.Push("b"))
	err := s.Push("c")
	assert.True(t, errors.Is(err, ErrnoStackOverflow))
	assert.Equal(t, 2, s.Height())
	assert.Equal(t, "b", s.Top().Name)

	cp := s.Copy()
	s.Pop()
	assert.Equal(t, 1, s.Height())
	assert.Equal(t, []string{"a", "b"}, cp.Names())

	var buf bytes.Buffer
	_, err = cp.DebugPrint(&buf)
	assert.NoError(t, err)
	assert.Equal(t, "Stacktrace (most recent call first)\n  height 1: b\n  height 0: a\n", buf.String())

	s.Pop()
	assert.Panics(t, s.Pop)
	var nilStack *CallStack
	assert.Equal(t, 0, nilStack.Height())
}
