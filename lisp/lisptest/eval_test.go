package lisptest

import (
	"strings"
	"testing"

	"github.com/ltrel/liasp/lisp"
	"github.com/ltrel/liasp/parser"
	"github.com/ltrel/liasp/parser/rdparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var readers = []struct {
	name string
	new  func() lisp.Reader
}{
	{"rd", rdparser.NewReader},
	{"parsec", parser.NewReader},
}

func TestEval_simple(t *testing.T) {
	type testexpr []struct {
		expr   string
		result string
	}
	tests := []struct {
		name string
		testexpr
	}{
		{"arithmetic", testexpr{
			{"(+ (* 2 3) 1)", "7"},
			{"(* (+ .5 2.5) -2)", "-6"},
		}},
		{"definitions", testexpr{
			{"(def x 5)", "x"},
			{"(+ x 1)", "6"},
		}},
		{"lambda", testexpr{
			{"((lambda (a b) (+ (* 2 a) b)) 3 4)", "10"},
		}},
		{"conditional", testexpr{
			{"(if (= 1 2) 10 20)", "20"},
			{"(if 0 1 2)", "1"},
			{"(if false (def a 1) (def b 2))", "b"},
			{"b", "2"},
			{"a", "undefined identifier: a"},
		}},
		{"closures", testexpr{
			{"(def counter (lambda (n) (lambda (step) (+ n step))))", "counter"},
			{"((counter 10) 5)", "15"},
		}},
	}
	for _, r := range readers {
		for _, test := range tests {
			t.Run(r.name+"/"+test.name, func(t *testing.T) {
				env, err := lisp.NewGlobalEnv(lisp.WithReader(r.new()))
				require.NoError(t, err)
				for i, expr := range test.testexpr {
					results, err := env.Load("test", strings.NewReader(expr.expr))
					var result string
					if err != nil {
						result = err.Error()
					} else if assert.Len(t, results, 1, "expr %d", i) {
						result = results[0].String()
					}
					assert.Equal(t, expr.result, result, "expr %d: %s", i, expr.expr)
				}
			})
		}
	}
}

func TestEval_program(t *testing.T) {
	const program = `
(def fact
  (lambda (n)
    (if (<= n 1) 1 (* n (fact (- n 1))))))
(def sum
  (lambda (lis)
    (if (empty? lis) 0 (+ (head lis) (sum (tail lis))))))
(fact 5)
(sum (list 1 2 3 4))
(length (cons 0 (list 1 2)))
`
	for _, r := range readers {
		t.Run(r.name, func(t *testing.T) {
			env, err := lisp.NewGlobalEnv(lisp.WithReader(r.new()))
			require.NoError(t, err)
			results, err := env.LoadString("program", program)
			require.NoError(t, err)
			var out []string
			for _, v := range results {
				out = append(out, v.String())
			}
			assert.Equal(t, []string{"fact", "sum", "120", "10", "3"}, out)
		})
	}
}
