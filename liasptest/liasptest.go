// Package liasptest runs sequences of lisp expressions against fresh global
// environments and compares their display text with expected results.
package liasptest

import (
	"bytes"
	"os"
	"testing"

	"github.com/ltrel/liasp/lisp"
	"github.com/ltrel/liasp/parser/rdparser"
)

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.Env.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the evaluated result, or the text of the error
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns a global environment configured like the one used by
// RunTestSuite.
func NewEnv(configs ...lisp.Config) (*lisp.Env, error) {
	configs = append([]lisp.Config{lisp.WithReader(rdparser.NewReader())}, configs...)
	return lisp.NewGlobalEnv(configs...)
}

// RunTestSuite runs each TestSequence in tests on isolated global
// environments.  A sequence continues after a mismatch so every expression is
// reported.
func RunTestSuite(t *testing.T, tests TestSuite, configs ...lisp.Config) {
	t.Helper()
	for i, test := range tests {
		env, err := NewEnv(configs...)
		if err != nil {
			t.Fatalf("test %d %q: %v", i, test.Name, err)
		}
		for j, expr := range test.TestSequence {
			v, err := rdparser.Parse(expr.Expr)
			if err != nil {
				if err.Error() != expr.Result {
					t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				}
				continue
			}
			var result string
			v, err = env.Eval(v)
			if err != nil {
				result = err.Error()
			} else {
				result = v.String()
			}
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
		}
	}
}

// BenchmarkParse returns a benchmark that reads the file at path with a
// Reader returned by newReader.
func BenchmarkParse(path string, newReader func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		source, err := os.ReadFile(path)
		if err != nil {
			b.Fatalf("Unable to read test file: %v", err)
		}
		b.SetBytes(int64(len(source)))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := newReader().Read(path, bytes.NewReader(source))
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
