// Package parser provides a lisp parser built from parser combinators.
//
//	expr     := '(' <expr>* ')' | <number> | <symbol>
//	number   := /-?[0-9]+/ <fraction>? | <fraction>
//	fraction := '.' /[0-9]+/
//	symbol   := /[A-Za-z+\-*\/<=>!?:$%_&~^][A-Za-z0-9.+\-*\/<=>!?:$%_&~^]*/
//
// Symbols naming reserved words produce booleans or special forms.  Numbers
// and symbols must be followed by whitespace, a parenthesis or the end of
// input, as in package rdparser, while a closing parenthesis needs no
// separator: "(+ 1 2)3" reads as two expressions.  Illegal characters and
// missing separators are tokenize errors.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ltrel/liasp/lisp"
	"github.com/ltrel/liasp/lisp/plist"
	parsec "github.com/prataprc/goparsec"
)

const (
	nodeInvalid nodeType = iota
	nodeTerm
	nodeSExpr
)

var nodeTypeStrings = []string{
	nodeInvalid: "INVALID",
	nodeTerm:    "TERM",
	nodeSExpr:   "SEXPR",
}

type reader struct {
}

// NewReader returns a lisp.Reader backed by ParseLVal.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]lisp.LVal, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	v, n, err := ParseLVal(text)
	if err != nil {
		return nil, readError(name, n, err)
	}
	return v, nil
}

// readError prefixes err with the input name and offset.  Interpreter errors
// keep their kind and anything else is a parse error.
func readError(name string, n int, err error) error {
	var lerr *lisp.Error
	if errors.As(err, &lerr) {
		return lisp.Errorf(lerr.Errno, "%s[%d]: %s", name, n, lerr.Msg)
	}
	return lisp.WrapError(lisp.ErrnoParse, err, "%s[%d]: %v", name, n, err)
}

// Parse parses text, which must contain exactly one expression.
func Parse(text []byte) (lisp.LVal, error) {
	v, n, err := ParseLVal(text)
	if err != nil {
		return lisp.LVal{}, readError("input", n, err)
	}
	switch len(v) {
	case 0:
		return lisp.LVal{}, lisp.Errorf(lisp.ErrnoParse, "no tokens")
	case 1:
		return v[0], nil
	default:
		return lisp.LVal{}, lisp.Errorf(lisp.ErrnoParse, "%d expressions found where one was expected", len(v))
	}
}

// ParseLVal parses LVal values from text and returns them.  The number of
// bytes read is returned along with any error that was encountered in parsing.
func ParseLVal(text []byte) ([]lisp.LVal, int, error) {
	var v []lisp.LVal
	text = bytes.TrimRightFunc(text, isSpace)
	if n, err := checkCharacters(text); err != nil {
		return nil, n, err
	}
	s := parsec.NewScanner(text)
	parser := newParsecParser(text)
	root, s := parser(s)
	for root != nil {
		lval, err := getLVal(root)
		if err != nil {
			var oerr *offsetError
			if errors.As(err, &oerr) {
				return v, oerr.offset, oerr.err
			}
			return v, s.GetCursor(), err
		}
		v = append(v, lval)
		root, s = parser(s)
	}
	if !s.Endof() {
		return v, s.GetCursor(), io.ErrUnexpectedEOF
	}
	return v, s.GetCursor(), nil
}

// newParsecParser returns a parser for one expression of text.
func newParsecParser(text []byte) parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	decimal := parsec.Token(`(?:-?[0-9]+(?:\.[0-9]+)?|\.[0-9]+)`, "DECIMAL")
	symbol := parsec.Token(`[A-Za-z+\-*/<=>!?:$%_&~^][A-Za-z0-9.+\-*/<=>!?:$%_&~^]*`, "SYMBOL")
	term := separated(text, parsec.OrdChoice(astNode(nodeTerm), // terminal token
		decimal,
		symbol, // symbol comes last because it would swallow negative numbers
	))
	var expr parsec.Parser // forward declaration allows for recursive parsing
	exprList := parsec.Kleene(nil, &expr)
	sexpr := parsec.And(astNode(nodeSExpr), openP, exprList, closeP)
	expr = parsec.OrdChoice(nil, term, sexpr)
	return expr
}

type nodeType uint

func (t nodeType) String() string {
	if int(t) >= len(nodeTypeStrings) {
		return "INVALID"
	}
	return nodeTypeStrings[t]
}

// newAST converts matched parsec nodes into either a lisp.LVal or an error.
func newAST(typ nodeType, nodes []parsec.ParsecNode) parsec.ParsecNode {
	nodes = cleanParsecNodeList(nodes)
	switch typ {
	case nodeTerm:
		term, ok := nodes[0].(*parsec.Terminal)
		if !ok {
			return fmt.Errorf("unexpected node: %T", nodes[0])
		}
		return termLVal(term)
	case nodeSExpr:
		var cells []lisp.LVal
		// We don't want terminal parsec nodes '(' and ')'
		for _, c := range nodes {
			switch c := c.(type) {
			case lisp.LVal:
				cells = append(cells, c)
			case error:
				return c
			}
		}
		return lisp.List(plist.Of(cells...))
	default:
		panic(fmt.Sprintf("unknown nodeType: %s (%d)", typ, typ))
	}
}

func termLVal(term *parsec.Terminal) parsec.ParsecNode {
	switch term.Name {
	case "DECIMAL":
		// Literals beyond float32 range become infinities.
		x, err := strconv.ParseFloat(term.Value, 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("bad number: %v (%s)", err, term.Value)
		}
		return lisp.Number(float32(x))
	case "SYMBOL":
		switch term.Value {
		case lisp.KeywordTrue:
			return lisp.Bool(true)
		case lisp.KeywordFalse:
			return lisp.Bool(false)
		}
		if op, ok := lisp.LookupSpecialOp(term.Value); ok {
			return op
		}
		return lisp.Ident(term.Value)
	default:
		return fmt.Errorf("unknown terminal: %s", term.Name)
	}
}

// separated fails terms of text which are not followed by whitespace, a
// parenthesis or the end of input.  The failure is an error node, so it
// propagates through the enclosing lists.
func separated(text []byte, term parsec.Parser) parsec.Parser {
	return func(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
		node, news := term(s)
		if node == nil {
			return nil, s
		}
		if _, ok := node.(error); ok {
			return node, news
		}
		i := news.GetCursor()
		if i < len(text) && !isSeparator(rune(text[i])) {
			err := lisp.Errorf(lisp.ErrnoTokenize, "missing separator after %v", node)
			return &offsetError{offset: i, err: err}, news
		}
		return node, news
	}
}

// offsetError records where in the text err was detected.
type offsetError struct {
	offset int
	err    error
}

func (e *offsetError) Error() string {
	return e.err.Error()
}

func (e *offsetError) Unwrap() error {
	return e.err
}

const identSymbols = "+-*/<=>!?:$%_&~^"

// checkCharacters returns a tokenize error for the first character of text
// that cannot begin or continue any token, along with its offset.
func checkCharacters(text []byte) (int, error) {
	for i := 0; i < len(text); {
		c, n := utf8.DecodeRune(text[i:])
		switch {
		case c == utf8.RuneError && n == 1:
			return i, lisp.Errorf(lisp.ErrnoTokenize, "invalid utf-8 sequence")
		case isSeparator(c), c == '.', '0' <= c && c <= '9',
			'a' <= c && c <= 'z', 'A' <= c && c <= 'Z',
			strings.ContainsRune(identSymbols, c):
		default:
			return i, lisp.Errorf(lisp.ErrnoTokenize, "unexpected character %q", c)
		}
		i += n
	}
	return 0, nil
}

func isSeparator(c rune) bool {
	return c == '(' || c == ')' || unicode.IsSpace(c)
}

func cleanParsecNodeList(lis []parsec.ParsecNode) []parsec.ParsecNode {
	var nodes []parsec.ParsecNode
	for _, n := range lis {
		switch node := n.(type) {
		case []parsec.ParsecNode:
			nodes = append(nodes, cleanParsecNodeList(node)...)
		default:
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func astNode(t nodeType) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return newAST(t, nodes)
	}
}

func getLVal(root parsec.ParsecNode) (lisp.LVal, error) {
	nodes := cleanParsecNodeList([]parsec.ParsecNode{root})
	if len(nodes) == 0 {
		return lisp.LVal{}, fmt.Errorf("empty parse tree")
	}
	switch node := nodes[0].(type) {
	case lisp.LVal:
		return node, nil
	case error:
		return lisp.LVal{}, node
	default:
		return lisp.LVal{}, fmt.Errorf("unexpected node: %T", node)
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
