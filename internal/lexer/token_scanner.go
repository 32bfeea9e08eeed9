package lexer

// TokenScanner feeds tokens to the parser one at a time.
type TokenScanner interface {
	Read() *Token
}

// LexerTokenScanner pulls tokens from a Lexer as they are requested, so an
// interactive input is only read as far as the parser needs.
type LexerTokenScanner struct {
	lexer *Lexer
}

func NewLexerScanner(lexer *Lexer) TokenScanner {
	return &LexerTokenScanner{
		lexer: lexer,
	}
}

func (s *LexerTokenScanner) Read() *Token {
	token := s.lexer.NextToken()
	return &token
}

// SimpleTokenScanner replays an already scanned token slice. Reading past
// the end keeps returning the final EOF token.
type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

func NewTokenScanner(tokens []Token) TokenScanner {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		tokens = append(tokens, Token{
			Kind:  EOF,
			Value: EOF.String(),
		})
	}

	return &SimpleTokenScanner{
		tokens: tokens,
	}
}

func (s *SimpleTokenScanner) Read() *Token {
	if s.pos >= len(s.tokens) {
		return &s.tokens[len(s.tokens)-1]
	}

	token := &s.tokens[s.pos]
	s.pos++

	return token
}
