package driver

import (
	"fmt"
	"io"

	"github.com/kievzenit/kscope/internal/lexer"
)

// DumpTokens writes one line per token up to and including EOF.
func DumpTokens(w io.Writer, scanner lexer.TokenScanner) {
	for {
		token := scanner.Read()
		fmt.Fprintf(w, "%d:%d\t%s\n", token.Metadata.Line, token.Metadata.Column, token.String())
		if token.Kind == lexer.EOF {
			return
		}
	}
}
