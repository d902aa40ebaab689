package rdparser

import (
	"github.com/ltrel/liasp/parser/lexer"
	"github.com/ltrel/liasp/parser/token"
)

// TokenSource buffers one token of lookahead over a lexer.
type TokenSource struct {
	lex   *lexer.Lexer
	Token *token.Token
	Peek  *token.Token
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return newTokenSource(lexer.New(scanner))
}

func newTokenSource(lex *lexer.Lexer) *TokenSource {
	s := &TokenSource{
		lex: lex,
	}
	s.scan()
	return s
}

// AcceptType advances the source if the next token has one of the given
// types.
func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek.Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

// Scan advances the source by one token.  Scan returns false without
// advancing once the next token is EOF.
func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek.Type == token.EOF
}

func (s *TokenSource) scan() {
	s.Token = s.Peek
	s.Peek = s.lex.NextToken()
}
