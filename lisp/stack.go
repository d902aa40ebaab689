package lisp

import (
	"fmt"
	"io"
)

// CallStack records the nesting of list evaluations for one global
// environment and every environment descended from it.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight is the number of frames beyond which Push fails.  A
	// MaxHeight of zero disables the limit.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Name string
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push adds a frame for name to the top of the stack.  Push returns an error
// and leaves the stack unchanged if the push would exceed s.MaxHeight.
func (s *CallStack) Push(name string) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return &Error{
			Errno: ErrnoStackOverflow,
			Msg:   fmt.Sprintf("maximum stack height exceeded (%d) calling %s", s.MaxHeight, name),
			Stack: s.Copy(),
		}
	}
	s.Frames = append(s.Frames, CallFrame{Name: name})
	return nil
}

// Pop removes the top frame from the stack.
func (s *CallStack) Pop() {
	if len(s.Frames) == 0 {
		panic("pop from empty call stack")
	}
	s.Frames = s.Frames[:len(s.Frames)-1]
}

// Copy creates a copy of the current stack so that it can be attached to an
// error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames, MaxHeight: s.MaxHeight}
}

// Names returns the frame names from the bottom of the stack to the top.
func (s *CallStack) Names() []string {
	names := make([]string, len(s.Frames))
	for i := range s.Frames {
		names[i] = s.Frames[i].Name
	}
	return names
}

// DebugPrint writes the stack to w, most recent frame first.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	var n int
	nn, err := fmt.Fprintf(w, "Stacktrace (most recent call first)\n")
	n += nn
	if err != nil {
		return n, err
	}
	for i := len(s.Frames) - 1; i >= 0; i-- {
		nn, err = fmt.Fprintf(w, "  height %d: %s\n", i, s.Frames[i].Name)
		n += nn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
