package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	switch tok.Type {
	case EOF:
		return "end of input"
	case ERROR, INVALID:
		return tok.Text
	default:
		return fmt.Sprintf("%s %q", tok.Type, tok.Text)
	}
}

type Type uint

// Type constants used for the lexer/parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Atomic expressions & literals
	SYMBOL
	NUMBER
	BOOL

	// Reserved words naming special forms
	DEF
	LAMBDA
	IF

	DOT

	// Delimiters
	PAREN_L
	PAREN_R

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID: "invalid",
	ERROR:   "error",
	EOF:     "EOF",
	SYMBOL:  "identifier",
	NUMBER:  "number",
	BOOL:    "bool",
	DEF:     "def",
	LAMBDA:  "lambda",
	IF:      "if",
	DOT:     ".",
	PAREN_L: "(",
	PAREN_R: ")",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// IsAtom returns true for token types that must be followed by a separator.
func (typ Type) IsAtom() bool {
	switch typ {
	case SYMBOL, NUMBER, BOOL, DEF, LAMBDA, IF, DOT:
		return true
	default:
		return false
	}
}

// Keyword returns the token type of the reserved word s.  Keyword returns
// SYMBOL if s is not reserved.
func Keyword(s string) Type {
	switch s {
	case "def":
		return DEF
	case "lambda":
		return LAMBDA
	case "if":
		return IF
	case "true", "false":
		return BOOL
	default:
		return SYMBOL
	}
}

type Location struct {
	File string
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
