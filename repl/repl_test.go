package repl

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/ltrel/liasp/parser/rdparser"
	"github.com/ltrel/liasp/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptReader replays a fixed sequence of lines.  The line interrupt
// simulates Ctrl-C at that position.
type scriptReader struct {
	lines   []string
	prompts []string
	history []string
}

const interrupt = "\x03"

func (s *scriptReader) ReadLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == interrupt {
		return "", ErrInterrupt
	}
	return line, nil
}

func (s *scriptReader) AddHistory(line string) {
	s.history = append(s.history, line)
}

func (s *scriptReader) Close() error {
	return nil
}

func runScript(t *testing.T, lines ...string) (stdout, stderr string, lr *scriptReader) {
	t.Helper()
	sess, err := session.New(rdparser.NewReader())
	require.NoError(t, err)
	lr = &scriptReader{lines: lines}
	var out, errOut bytes.Buffer
	r := &Repl{
		Session: sess,
		Lines:   lr,
		Out:     &out,
		Err:     &errOut,
	}
	require.NoError(t, r.Run(context.Background()))
	return out.String(), errOut.String(), lr
}

func TestRepl(t *testing.T) {
	out, errOut, lr := runScript(t,
		"(+ (* 2 3) 1)",
		"",
		"(def x 5)",
		"(+ x 1)",
		"(undefined)",
		"(+ x 2)",
	)
	assert.Equal(t, "7\nx\n6\n7\n", out)
	assert.Equal(t, "Error: undefined identifier: undefined\n", errOut)
	assert.Equal(t, []string{"(+ (* 2 3) 1)", "(def x 5)", "(+ x 1)", "(undefined)", "(+ x 2)"}, lr.history)
}

func TestReplContinuation(t *testing.T) {
	out, errOut, lr := runScript(t,
		"(def f (lambda (a b)",
		"  (+ (* 2 a) b)))",
		"(f 3 4)",
	)
	assert.Equal(t, "f\n10\n", out)
	assert.Empty(t, errOut)
	assert.Equal(t, []string{"> ", "  ", "> ", "> "}, lr.prompts)
	assert.Equal(t, "(def f (lambda (a b)   (+ (* 2 a) b)))", lr.history[0])
}

func TestReplInterrupt(t *testing.T) {
	out, errOut, lr := runScript(t,
		"(+ 1",
		interrupt,
		"(+ 2 2)",
	)
	assert.Equal(t, "4\n", out)
	assert.Empty(t, errOut)
	assert.Equal(t, []string{"> ", "  ", "> ", "> "}, lr.prompts)
}

func TestReplMultipleExpressions(t *testing.T) {
	out, _, _ := runScript(t, "(def y 2) (* y y)")
	assert.Equal(t, "y\n4\n", out)
}

func TestReplCommands(t *testing.T) {
	out, errOut, lr := runScript(t,
		"(def x 1)",
		":reset",
		"x",
		":bogus",
		":quit",
		"(+ 1 1)",
	)
	assert.Equal(t, "x\n", out)
	assert.Equal(t, "Error: undefined identifier: x\nError: unknown command :bogus (try :help)\n", errOut)
	assert.Len(t, lr.lines, 1)
}

func TestReplSyntaxError(t *testing.T) {
	out, errOut, _ := runScript(t, "(+ 1 2))", "(+ 1 2)")
	assert.Equal(t, "3\n", out)
	assert.Contains(t, errOut, "Error: parse error")
}

func TestReplCanceled(t *testing.T) {
	sess, err := session.New(rdparser.NewReader())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Repl{Session: sess, Lines: &scriptReader{lines: []string{"1"}}, Out: io.Discard, Err: io.Discard}
	assert.ErrorIs(t, r.Run(ctx), context.Canceled)
}
