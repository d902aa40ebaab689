package token

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Scanner reads runes of source text and groups them into tokens, tracking
// the line and column where each token starts.  Source text is read in full
// when the Scanner is created.
type Scanner struct {
	file    string
	src     []byte
	readErr error // error that cut src short, reported after src is consumed

	start int  // offset of the current token
	next  int  // offset of the rune following c
	c     rune // last rune scanned

	line, col           int // position of the rune at next
	startLine, startCol int // position of the rune at start
}

// NewScanner returns a Scanner over the contents of r.  The file name is
// recorded in the Location of every token.
func NewScanner(file string, r io.Reader) *Scanner {
	src, err := io.ReadAll(r)
	return &Scanner{
		file:      file,
		src:       src,
		readErr:   err,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
}

// EmitToken returns a token of type typ holding the text scanned since the
// last call to EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore discards the text scanned since the last call to EmitToken or
// Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns the text scanned since the last call to EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.src[s.start:s.next])
}

// Rune returns the last rune scanned.
func (s *Scanner) Rune() rune {
	return s.c
}

// Peek returns the next rune without scanning it.  Peek returns false at the
// end of input and before an invalid utf-8 sequence; the next call to
// ScanRune returns the cause.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.src) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.src[s.next:])
	if c == utf8.RuneError && n == 1 {
		return utf8.RuneError, false
	}
	return c, true
}

// ScanRune adds the next rune to the current token.  ScanRune returns io.EOF
// at the end of input.
func (s *Scanner) ScanRune() error {
	if s.next >= len(s.src) {
		if s.readErr != nil {
			return s.readErr
		}
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.src[s.next:])
	if c == utf8.RuneError && n == 1 {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.src[s.next])
	}
	s.c = c
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// LocStart returns the Location of the first rune of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}
