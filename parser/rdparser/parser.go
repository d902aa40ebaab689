/*
Package rdparser implements a recursive descent parser producing lisp.LVal
expression trees from the token stream of package lexer.

Each balanced parenthesis group becomes one list.  Reserved words are
resolved to their special forms at parse time, so the evaluator never looks
them up in an environment.
*/
package rdparser

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/ltrel/liasp/lisp"
	"github.com/ltrel/liasp/lisp/plist"
	"github.com/ltrel/liasp/parser/lexer"
	"github.com/ltrel/liasp/parser/token"
)

// ErrIncomplete is the cause of parse errors produced when the input ends
// inside an unclosed list.  More input could complete the expression.
var ErrIncomplete = errors.New("incomplete expression")

// IsIncomplete returns true if err was caused by input ending inside an
// unclosed list.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

type reader struct {
}

// NewReader returns a lisp.Reader to use in a lisp.Runtime.
func NewReader() lisp.Reader {
	return &reader{}
}

// Read implements lisp.Reader.
func (*reader) Read(name string, r io.Reader) ([]lisp.LVal, error) {
	s := token.NewScanner(name, r)
	p := New(s)
	return p.ParseProgram()
}

// Parse parses src, which must contain exactly one expression.
func Parse(src string) (lisp.LVal, error) {
	p := New(token.NewScanner("input", strings.NewReader(src)))
	if p.src.IsEOF() {
		return lisp.LVal{}, lisp.Errorf(lisp.ErrnoParse, "no tokens")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return lisp.LVal{}, err
	}
	if !p.src.IsEOF() {
		if p.src.AcceptType(token.ERROR, token.INVALID) {
			return lisp.LVal{}, lexer.TokenError(p.src.Token)
		}
		p.src.Scan()
		return lisp.LVal{}, p.errorf("unexpected %s following expression", p.src.Token)
	}
	return expr, nil
}

// Parser is a lisp parser.
type Parser struct {
	src *TokenSource
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return &Parser{
		src: NewTokenSource(scanner),
	}
}

// NewFromLexer returns a Parser that reads tokens from lex.
func NewFromLexer(lex *lexer.Lexer) *Parser {
	return &Parser{
		src: newTokenSource(lex),
	}
}

// ParseProgram parses expressions until the end of input.  An empty program
// is not an error.
func (p *Parser) ParseProgram() ([]lisp.LVal, error) {
	var exprs []lisp.LVal
	for !p.src.IsEOF() {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ParseExpression parses the next expression in the token stream.
func (p *Parser) ParseExpression() (lisp.LVal, error) {
	switch p.src.Peek.Type {
	case token.NUMBER:
		return p.ParseNumber()
	case token.BOOL:
		p.src.Scan()
		return lisp.Bool(p.src.Token.Text == lisp.KeywordTrue), nil
	case token.SYMBOL:
		p.src.Scan()
		return lisp.Ident(p.src.Token.Text), nil
	case token.DEF, token.LAMBDA, token.IF:
		return p.ParseSpecialOp()
	case token.PAREN_L:
		return p.ParseList()
	case token.ERROR, token.INVALID:
		p.src.Scan()
		return lisp.LVal{}, lexer.TokenError(p.src.Token)
	case token.EOF:
		return lisp.LVal{}, p.errorf("unexpected end of input")
	default:
		p.src.Scan()
		return lisp.LVal{}, p.errorf("unexpected %s", p.src.Token.Type)
	}
}

func (p *Parser) ParseNumber() (lisp.LVal, error) {
	if !p.src.AcceptType(token.NUMBER) {
		return lisp.LVal{}, p.errorf("invalid number literal: %v", p.src.Peek.Type)
	}
	text := p.src.Token.Text
	// Literals beyond float32 range become infinities.
	x, err := strconv.ParseFloat(text, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return lisp.LVal{}, p.errorf("invalid number literal: %v", text)
	}
	return lisp.Number(float32(x)), nil
}

func (p *Parser) ParseSpecialOp() (lisp.LVal, error) {
	p.src.Scan()
	op, ok := lisp.LookupSpecialOp(p.src.Token.Text)
	if !ok {
		return lisp.LVal{}, p.errorf("unknown special form: %v", p.src.Token.Text)
	}
	return op, nil
}

func (p *Parser) ParseList() (lisp.LVal, error) {
	if !p.src.AcceptType(token.PAREN_L) {
		return lisp.LVal{}, p.errorf("invalid list: %v", p.src.Peek.Type)
	}
	open := p.src.Token
	var cells []lisp.LVal
	for {
		if p.src.IsEOF() {
			return lisp.LVal{}, &lisp.Error{
				Errno: lisp.ErrnoParse,
				Msg:   open.Source.String() + ": unmatched " + open.Text,
				Err:   ErrIncomplete,
			}
		}
		if p.src.AcceptType(token.PAREN_R) {
			break
		}
		x, err := p.ParseExpression()
		if err != nil {
			return lisp.LVal{}, err
		}
		cells = append(cells, x)
	}
	return lisp.List(plist.Of(cells...)), nil
}

func (p *Parser) errorf(format string, v ...interface{}) error {
	err := lisp.Errorf(lisp.ErrnoParse, format, v...).(*lisp.Error)
	if tok := p.src.Token; tok != nil && tok.Source != nil {
		err.Msg = tok.Source.String() + ": " + err.Msg
	}
	return err
}
