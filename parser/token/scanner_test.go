package token

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanN(t *testing.T, s *Scanner, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, s.ScanRune())
	}
}

func TestScannerTokens(t *testing.T) {
	s := NewScanner("f.lisp", strings.NewReader("(ab\n  cd)"))
	scanN(t, s, 1)
	tok := s.EmitToken(PAREN_L)
	assert.Equal(t, "(", tok.Text)
	assert.Equal(t, "f.lisp:1:1", tok.Source.String())

	scanN(t, s, 2)
	assert.Equal(t, 'b', s.Rune())
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "ab", tok.Text)
	assert.Equal(t, "f.lisp:1:2", tok.Source.String())

	scanN(t, s, 3)
	s.Ignore()
	scanN(t, s, 2)
	tok = s.EmitToken(SYMBOL)
	assert.Equal(t, "cd", tok.Text)
	assert.Equal(t, "f.lisp:2:3", tok.Source.String())
	assert.Equal(t, 6, tok.Source.Pos)

	c, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, ')', c)
	scanN(t, s, 1)
	_, ok = s.Peek()
	assert.False(t, ok)
	assert.Equal(t, io.EOF, s.ScanRune())
}

func TestScannerMultibyte(t *testing.T) {
	s := NewScanner("f", strings.NewReader("éa"))
	scanN(t, s, 1)
	s.Ignore()
	scanN(t, s, 1)
	tok := s.EmitToken(SYMBOL)
	assert.Equal(t, "a", tok.Text)
	assert.Equal(t, 2, tok.Source.Pos)
	assert.Equal(t, 2, tok.Source.Col)
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScanner("f", strings.NewReader("a\xff"))
	scanN(t, s, 1)
	c, ok := s.Peek()
	assert.False(t, ok)
	assert.Equal(t, utf8.RuneError, c)
	assert.Error(t, s.ScanRune())
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestScannerReadError(t *testing.T) {
	s := NewScanner("f", failingReader{})
	err := s.ScanRune()
	require.Error(t, err)
	assert.Equal(t, "disk on fire", err.Error())
}
