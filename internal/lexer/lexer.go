package lexer

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

// eof is the lookahead value once the input is exhausted.
const eof = -1

// Lexer turns a byte stream into tokens on demand. It keeps exactly one
// character of lookahead between calls; that character is consumed from the
// reader but not yet classified.
type Lexer struct {
	r *bufio.Reader

	lastChar  int
	line, col int

	err error
}

func NewLexer(r io.Reader) *Lexer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Lexer{
		r: br,

		lastChar: ' ',
		line:     1,
		col:      0,
	}
}

// Err returns the first read error other than io.EOF.
func (l *Lexer) Err() error {
	return l.err
}

// Tokenize drains the input. The returned slice always ends with an EOF token.
func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0)

	for {
		token := l.NextToken()
		tokens = append(tokens, token)
		if token.Kind == EOF {
			return tokens
		}
	}
}

func (l *Lexer) NextToken() Token {
	for {
		for isSpace(l.lastChar) {
			l.advance()
		}

		switch {
		case isAlpha(l.lastChar):
			return l.processIdentifier()

		case isDigit(l.lastChar):
			return l.processNumber()

		case l.lastChar == '#':
			l.skipComment()
			continue

		case l.lastChar == eof:
			return Token{
				Kind:     EOF,
				Value:    EOF.String(),
				Metadata: l.metadata(l.line, l.col, 0),
			}
		}

		return l.processChar()
	}
}

func (l *Lexer) processIdentifier() Token {
	line, col := l.line, l.col

	identifierBuf := make([]byte, 0)
	identifierBuf = append(identifierBuf, byte(l.lastChar))
	l.advance()

	for isAlnum(l.lastChar) {
		identifierBuf = append(identifierBuf, byte(l.lastChar))
		l.advance()
	}
	identifier := string(identifierBuf)
	metadata := l.metadata(line, col, len(identifier))

	switch identifier {
	case "def":
		return Token{
			Kind:     DEF,
			Value:    identifier,
			Metadata: metadata,
		}
	case "extern":
		return Token{
			Kind:     EXTERN,
			Value:    identifier,
			Metadata: metadata,
		}
	}

	return Token{
		Kind:     IDENT,
		Value:    identifier,
		Metadata: metadata,
	}
}

func (l *Lexer) processNumber() Token {
	line, col := l.line, l.col

	numberBuf := make([]byte, 0)
	for isDigit(l.lastChar) || l.lastChar == '.' {
		numberBuf = append(numberBuf, byte(l.lastChar))
		l.advance()
	}
	number := string(numberBuf)

	return Token{
		Kind:     NUMBER,
		Value:    number,
		Num:      parseNumberPrefix(number),
		Metadata: l.metadata(line, col, len(number)),
	}
}

// parseNumberPrefix returns the value of the longest prefix of s that is a
// valid float, so "1.2.3" yields 1.2. It never fails.
func parseNumberPrefix(s string) float64 {
	for end := len(s); end > 0; end-- {
		value, err := strconv.ParseFloat(s[:end], 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return value
		}
	}

	return 0
}

func (l *Lexer) skipComment() {
	for {
		l.advance()
		if l.lastChar == eof || l.lastChar == '\n' || l.lastChar == '\r' {
			return
		}
	}
}

func (l *Lexer) processChar() Token {
	char := byte(l.lastChar)
	metadata := l.metadata(l.line, l.col, 1)
	l.advance()

	return Token{
		Kind:     CHAR,
		Value:    string(char),
		Char:     char,
		Metadata: metadata,
	}
}

func (l *Lexer) metadata(line, col, length int) TokenMetadata {
	return TokenMetadata{
		Line:   line,
		Column: col,
		Length: length,
	}
}

func (l *Lexer) advance() {
	if l.lastChar == eof {
		return
	}

	if l.lastChar == '\n' {
		l.line++
		l.col = 0
	}

	b, err := l.r.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = err
		}
		// EOF sits one column past the last character.
		l.col++
		l.lastChar = eof
		return
	}

	l.lastChar = int(b)
	l.col++
}

func isSpace(c int) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}

func isAlpha(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c int) bool {
	return isAlpha(c) || isDigit(c)
}
