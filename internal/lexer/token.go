package lexer

import (
	"fmt"
	"strconv"
)

type TokenKind int

const (
	EOF TokenKind = iota

	DEF
	EXTERN

	IDENT
	NUMBER

	// any other single byte: operators and punctuation
	CHAR
)

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case DEF:
		return "DEF"
	case EXTERN:
		return "EXTERN"
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case CHAR:
		return "CHAR"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

type TokenMetadata struct {
	Line   int
	Column int
	Length int
}

type Token struct {
	Kind TokenKind

	// Value is the source text of the token.
	Value string
	Num   float64
	Char  byte

	Metadata TokenMetadata
}

// Is reports whether t is the single character token c.
func (t *Token) Is(c byte) bool {
	return t.Kind == CHAR && t.Char == c
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case IDENT, NUMBER, CHAR:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return fmt.Sprintf("%s()", t.Kind)
	}

	if t.Kind == CHAR {
		return fmt.Sprintf("%s(%s)", t.Kind, strconv.QuoteRune(rune(t.Char)))
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}

// Describe renders the token the way diagnostics quote it.
func (t *Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case DEF:
		return "'def'"
	case EXTERN:
		return "'extern'"
	case CHAR:
		if t.Char < 0x20 || t.Char >= 0x7f {
			return fmt.Sprintf("byte 0x%02x", t.Char)
		}
		return fmt.Sprintf("'%c'", t.Char)
	}

	return fmt.Sprintf("'%s'", t.Value)
}
