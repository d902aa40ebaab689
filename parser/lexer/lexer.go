package lexer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ltrel/liasp/lisp"
	"github.com/ltrel/liasp/parser/internal/interntoken"
	"github.com/ltrel/liasp/parser/token"
)

const identSymbols = "+-*/<=>!?:$%_&~^"

type Lexer struct {
	scanner *token.Scanner
	ch      rune // current unicode rune
	intern  *interntoken.Table

	// readErr is the error that ends the token stream.  Once set every call
	// to NextToken returns a token describing it.
	readErr error
}

// New returns a Lexer that produces tokens from s.  Identifier text is
// interned in a table private to the lexer.
func New(s *token.Scanner) *Lexer {
	return NewInterned(s, interntoken.NewTable())
}

// NewInterned returns a Lexer that interns identifier text in tab.
func NewInterned(s *token.Scanner, tab *interntoken.Table) *Lexer {
	return &Lexer{
		scanner: s,
		intern:  tab,
	}
}

// Tokenize returns every token in r up to, but not including, the EOF token.
// Tokenize returns a TokenizeError describing the first illegal character or
// missing separator.
func Tokenize(name string, r io.Reader) ([]*token.Token, error) {
	lex := New(token.NewScanner(name, r))
	var toks []*token.Token
	for {
		tok := lex.NextToken()
		switch tok.Type {
		case token.EOF:
			return toks, nil
		case token.ERROR, token.INVALID:
			return nil, TokenError(tok)
		}
		toks = append(toks, tok)
	}
}

// TokenError returns a TokenizeError for the ERROR or INVALID token tok.
func TokenError(tok *token.Token) error {
	return lisp.Errorf(lisp.ErrnoTokenize, "%v: %s", tok.Source, tok.Text)
}

// NextToken returns the next token in the input.  After the input is
// exhausted NextToken returns EOF tokens.  After an error NextToken returns
// ERROR tokens.
func (lex *Lexer) NextToken() *token.Token {
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readErr = lex.skipWhitespace()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	lex.readChar()
	if lex.readErr != nil {
		return lex.emitError(lex.readErr, true)
	}
	switch lex.ch {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L)
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R)
	case '.':
		if isDigit(lex.peekRune()) {
			return lex.readFraction()
		}
		return lex.atomToken(token.DOT)
	case '-':
		if isDigit(lex.peekRune()) {
			return lex.readNumber()
		}
		return lex.readIdent()
	default:
		if isDigit(lex.ch) {
			return lex.readNumber()
		}
		if isIdentInitial(lex.ch) {
			return lex.readIdent()
		}
		return lex.errorf("unexpected character %q", lex.ch)
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitError(err error, expectEOF bool) *token.Token {
	if err == io.EOF {
		if expectEOF {
			return lex.emit(token.EOF, "")
		}
		err = errors.New("unexpected EOF")
	}
	lex.readErr = err
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...), false)
}

// atomToken emits the text scanned so far as a token of type typ.  Atoms must
// be followed by whitespace, a parenthesis or the end of input.
func (lex *Lexer) atomToken(typ token.Type) *token.Token {
	next, ok := lex.scanner.Peek()
	if ok && !isSeparator(next) {
		return lex.errorf("missing separator after %q", lex.scanner.Text())
	}
	if typ == token.SYMBOL {
		return lex.emit(typ, lex.intern.Get(lex.scanner.Text()))
	}
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) readIdent() *token.Token {
	for isIdentSubsequent(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.atomToken(token.Keyword(lex.scanner.Text()))
}

func (lex *Lexer) readNumber() *token.Token {
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	if lex.peekRune() != '.' {
		return lex.atomToken(token.NUMBER)
	}
	err := lex.readChar()
	if err != nil {
		return lex.emitError(err, false)
	}
	if !isDigit(lex.peekRune()) {
		return lex.errorf("invalid number literal: %v", lex.scanner.Text())
	}
	return lex.readFraction()
}

// readFraction scans the digits following a decimal point.
func (lex *Lexer) readFraction() *token.Token {
	for isDigit(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return lex.emitError(err, false)
		}
	}
	return lex.atomToken(token.NUMBER)
}

func (lex *Lexer) skipWhitespace() error {
	for unicode.IsSpace(lex.peekRune()) {
		err := lex.readChar()
		if err != nil {
			return err
		}
	}
	lex.scanner.Ignore()
	return nil
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func (lex *Lexer) readChar() error {
	lex.readErr = lex.scanner.ScanRune()
	if lex.readErr != nil {
		return lex.readErr
	}
	lex.ch = lex.scanner.Rune()
	return nil
}

func isSeparator(c rune) bool {
	return c == '(' || c == ')' || unicode.IsSpace(c)
}

func isIdentInitial(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || strings.ContainsRune(identSymbols, c)
}

func isIdentSubsequent(c rune) bool {
	return isIdentInitial(c) || isDigit(c) || c == '.'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
