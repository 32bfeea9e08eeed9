package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

type lineSource interface {
	Readline() (string, error)
}

// lineReader feeds lines typed at the prompt to the lexer as one stream.
// Ctrl-C and Ctrl-D end the stream.
type lineReader struct {
	source lineSource
	buf    []byte
}

func (r *lineReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		line, err := r.source.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, err
		}
		r.buf = append([]byte(line), '\n')
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func isInteractive() bool {
	return readline.IsTerminal(int(os.Stdin.Fd()))
}

func newREPL() (*readline.Instance, error) {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".kscope_history")
	}

	return readline.NewEx(&readline.Config{
		Prompt:      "ready> ",
		HistoryFile: historyFile,
	})
}
