package parser

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/kievzenit/kscope/internal/lexer"
)

var (
	ErrInvalidOperator   = errors.New("invalid binary operator character")
	ErrInvalidPrecedence = errors.New("precedence must be positive")
)

var defaultPrecedence = map[byte]int{
	'<': 10,
	'+': 20,
	'-': 20,
	'*': 40,
}

// PrecedenceTable maps single-character binary operators to their binding
// power. Higher binds tighter. It must not be changed while a parse is
// in progress.
type PrecedenceTable struct {
	ops map[byte]int
}

func NewPrecedenceTable() *PrecedenceTable {
	return &PrecedenceTable{
		ops: make(map[byte]int),
	}
}

// DefaultPrecedenceTable holds '<' 10, '+' 20, '-' 20 and '*' 40.
func DefaultPrecedenceTable() *PrecedenceTable {
	return &PrecedenceTable{
		ops: maps.Clone(defaultPrecedence),
	}
}

func (t *PrecedenceTable) Register(op byte, precedence int) error {
	if !isOperatorChar(op) {
		return fmt.Errorf("%w: %q", ErrInvalidOperator, op)
	}
	if precedence <= 0 {
		return fmt.Errorf("%w: %q has %d", ErrInvalidPrecedence, op, precedence)
	}

	t.ops[op] = precedence
	return nil
}

// Merge registers operators given as single-character strings, the shape
// they have in configuration files.
func (t *PrecedenceTable) Merge(ops map[string]int) error {
	for _, key := range slices.Sorted(maps.Keys(ops)) {
		if len(key) != 1 {
			return fmt.Errorf("%w: %q is not a single character", ErrInvalidOperator, key)
		}
		if err := t.Register(key[0], ops[key]); err != nil {
			return err
		}
	}

	return nil
}

func (t *PrecedenceTable) Lookup(op byte) (int, bool) {
	precedence, ok := t.ops[op]
	return precedence, ok
}

// Of returns the precedence of tok, or -1 when tok is not a registered
// binary operator.
func (t *PrecedenceTable) Of(tok *lexer.Token) int {
	if tok.Kind != lexer.CHAR || tok.Char >= 0x80 {
		return -1
	}

	precedence, ok := t.ops[tok.Char]
	if !ok || precedence <= 0 {
		return -1
	}

	return precedence
}

func (t *PrecedenceTable) Operators() []byte {
	return slices.Sorted(maps.Keys(t.ops))
}

func isOperatorChar(c byte) bool {
	if c <= ' ' || c >= 0x7f {
		return false
	}
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
		return false
	}

	switch c {
	case '(', ')', ',', ';', '#', '.':
		return false
	}

	return true
}
