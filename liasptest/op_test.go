package liasptest

import "testing"

func TestSpecialOps(t *testing.T) {
	tests := TestSuite{
		{"if", TestSequence{
			{"(if false 1 2)", "2"},
			{"(if 0 1 2)", "1"},
			{"(if (list) 1 2)", "1"},
			{"(if true 1)", "missing clause: missing else clause"},
			{"(if true)", "missing clause: missing then clause"},
			{"(if)", "missing clause: missing conditional"},
			{"(if true 1 2 3)", "1"},
		}},
		{"if short circuit", TestSequence{
			{"(if false (def x 1) (def y 2))", "y"},
			{"y", "2"},
			{"x", "undefined identifier: x"},
			{"(if true 1 (undefined-fn))", "1"},
		}},
		{"def", TestSequence{
			{"(def 1 2)", "type error: def: first argument is not an identifier: number"},
			{"(def x)", "type error: def: missing value for x"},
			{"(def)", "type error: def: missing identifier"},
			{"(def x (+ 1 2))", "x"},
			{"x", "3"},
			{"(def y z)", "undefined identifier: z"},
			{"y", "undefined identifier: y"},
		}},
		{"lambda", TestSequence{
			{"(lambda (1) 1)", "type error: lambda: non-identifier in parameter list: 1"},
			{"(lambda x x)", "type error: lambda: first argument is not a list: identifier"},
			{"(lambda (a a) a)", "type error: lambda: duplicate parameter: a"},
			{"(lambda (a))", "type error: lambda: missing body"},
			{"((lambda (a b) a) 1)", "arity error: function expects 2 arguments (got 1)"},
			// extra arguments are ignored
			{"((lambda (a) a) 1 2)", "1"},
		}},
		{"special forms are not functions", TestSequence{
			{"(def d if)", "d"},
			{"d", "#<special-form if>"},
			{"(d true 1 2)", "not callable: first element of expression is not a function: #<special-form if>"},
		}},
	}
	RunTestSuite(t, tests)
}
