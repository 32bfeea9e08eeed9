package lexer

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func scanAll(src string) []Token {
	return NewLexer(strings.NewReader(src)).Tokenize()
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kinds  []TokenKind
		values []string
	}{
		{"empty", "", []TokenKind{EOF}, []string{"EOF"}},
		{"blank", " \t\r\n ", []TokenKind{EOF}, []string{"EOF"}},
		{"ident", "foo", []TokenKind{IDENT, EOF}, []string{"foo", "EOF"}},
		{"ident_alnum", "x1y2", []TokenKind{IDENT, EOF}, []string{"x1y2", "EOF"}},
		{"ident_no_underscore", "a_b", []TokenKind{IDENT, CHAR, IDENT, EOF}, []string{"a", "_", "b", "EOF"}},
		{"kw_def", "def", []TokenKind{DEF, EOF}, []string{"def", "EOF"}},
		{"kw_extern", "extern", []TokenKind{EXTERN, EOF}, []string{"extern", "EOF"}},
		{"kw_prefix", "define", []TokenKind{IDENT, EOF}, []string{"define", "EOF"}},
		{"int", "42", []TokenKind{NUMBER, EOF}, []string{"42", "EOF"}},
		{"float", "3.25", []TokenKind{NUMBER, EOF}, []string{"3.25", "EOF"}},
		{"leading_dot", ".5", []TokenKind{CHAR, NUMBER, EOF}, []string{".", "5", "EOF"}},
		{"number_then_ident", "4x", []TokenKind{NUMBER, IDENT, EOF}, []string{"4", "x", "EOF"}},
		{"ops", "+-*<", []TokenKind{CHAR, CHAR, CHAR, CHAR, EOF}, []string{"+", "-", "*", "<", "EOF"}},
		{"punct", "(,);", []TokenKind{CHAR, CHAR, CHAR, CHAR, EOF}, []string{"(", ",", ")", ";", "EOF"}},
		{"comment", "# comment\n42", []TokenKind{NUMBER, EOF}, []string{"42", "EOF"}},
		{"comment_cr", "# comment\r7", []TokenKind{NUMBER, EOF}, []string{"7", "EOF"}},
		{"comment_at_eof", "1 # trailing", []TokenKind{NUMBER, EOF}, []string{"1", "EOF"}},
		{"comment_only", "# nothing here", []TokenKind{EOF}, []string{"EOF"}},
		{"comments_stacked", "#a\n#b\n\n#c\nx", []TokenKind{IDENT, EOF}, []string{"x", "EOF"}},
		{
			"definition",
			"def foo(a b) a+b*2",
			[]TokenKind{DEF, IDENT, CHAR, IDENT, IDENT, CHAR, IDENT, CHAR, IDENT, CHAR, NUMBER, EOF},
			[]string{"def", "foo", "(", "a", "b", ")", "a", "+", "b", "*", "2", "EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := scanAll(tt.src)
			if len(tokens) != len(tt.kinds) {
				t.Fatalf("got %d tokens %v, want %d", len(tokens), tokens, len(tt.kinds))
			}
			for i, token := range tokens {
				if token.Kind != tt.kinds[i] {
					t.Errorf("token %d: kind = %s, want %s", i, token.Kind, tt.kinds[i])
				}
				if token.Value != tt.values[i] {
					t.Errorf("token %d: value = %q, want %q", i, token.Value, tt.values[i])
				}
			}
		})
	}
}

func TestScanNumberValues(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.25", 3.25},
		{"10.", 10},
		{"1.2.3", 1.2},
		{"007", 7},
		{"1..5", 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens := scanAll(tt.src)
			if tokens[0].Kind != NUMBER {
				t.Fatalf("kind = %s, want NUMBER", tokens[0].Kind)
			}
			if tokens[0].Value != tt.src {
				t.Errorf("value = %q, want the whole literal %q", tokens[0].Value, tt.src)
			}
			if tokens[0].Num != tt.want {
				t.Errorf("num = %v, want %v", tokens[0].Num, tt.want)
			}
		})
	}
}

func TestCommentSkipping(t *testing.T) {
	l := NewLexer(strings.NewReader("# comment\n42"))

	token := l.NextToken()
	if token.Kind != NUMBER || token.Num != 42 {
		t.Fatalf("got %s, want NUMBER(42)", token.String())
	}
	if next := l.NextToken(); next.Kind != EOF {
		t.Fatalf("got %s, want EOF", next.String())
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := NewLexer(strings.NewReader("x"))
	l.NextToken()

	for i := 0; i < 3; i++ {
		if token := l.NextToken(); token.Kind != EOF {
			t.Fatalf("call %d: got %s, want EOF", i, token.String())
		}
	}
}

func TestCharTokenPayload(t *testing.T) {
	tokens := scanAll("<")
	if !tokens[0].Is('<') {
		t.Fatalf("got %s, want CHAR('<')", tokens[0].String())
	}
	if tokens[0].Is('>') {
		t.Fatal("Is('>') should be false")
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := scanAll("def f(x)\n  x + 10")

	want := []TokenMetadata{
		{Line: 1, Column: 1, Length: 3},
		{Line: 1, Column: 5, Length: 1},
		{Line: 1, Column: 6, Length: 1},
		{Line: 1, Column: 7, Length: 1},
		{Line: 1, Column: 8, Length: 1},
		{Line: 2, Column: 3, Length: 1},
		{Line: 2, Column: 5, Length: 1},
		{Line: 2, Column: 7, Length: 2},
		{Line: 2, Column: 9, Length: 0},
	}
	for i, w := range want {
		if tokens[i].Metadata != w {
			t.Errorf("token %d (%s): metadata = %+v, want %+v", i, tokens[i].String(), tokens[i].Metadata, w)
		}
	}
}

type failingReader struct {
	data string
	done bool
}

var errBroken = errors.New("broken pipe")

func (r *failingReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, errBroken
	}
	r.done = true
	return copy(p, r.data), nil
}

func TestReadErrorEndsStream(t *testing.T) {
	l := NewLexer(&failingReader{data: "a b"})
	tokens := l.Tokenize()

	if len(tokens) != 3 || tokens[2].Kind != EOF {
		t.Fatalf("got %v", tokens)
	}
	if !errors.Is(l.Err(), errBroken) {
		t.Fatalf("Err() = %v, want %v", l.Err(), errBroken)
	}
}

func TestSimpleTokenScannerRepeatsEOF(t *testing.T) {
	s := NewTokenScanner(scanAll("a"))

	if token := s.Read(); token.Kind != IDENT {
		t.Fatalf("got %s, want IDENT", token.String())
	}
	for i := 0; i < 2; i++ {
		if token := s.Read(); token.Kind != EOF {
			t.Fatalf("got %s, want EOF", token.String())
		}
	}
}

func TestLexerScannerIsLazy(t *testing.T) {
	r := &countingReader{src: "1 2 3"}
	s := NewLexerScanner(NewLexer(r))

	if token := s.Read(); token.Num != 1 {
		t.Fatalf("got %s", token.String())
	}
	if token := s.Read(); token.Num != 2 {
		t.Fatalf("got %s", token.String())
	}
	if r.pos >= len(r.src) {
		t.Fatalf("reader drained eagerly: pos = %d", r.pos)
	}
}

// countingReader hands out one byte per Read call.
type countingReader struct {
	src string
	pos int
}

func (r *countingReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.src) {
		return 0, io.EOF
	}
	p[0] = r.src[r.pos]
	r.pos++
	return 1, nil
}
