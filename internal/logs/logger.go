package logs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/reusee/dscope"
	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type Module struct {
	dscope.Module
}

type Logger = *slog.Logger

type Writer io.Writer

type Options struct {
	// Level is shared with the handlers, so it can be changed after the
	// logger is built. Nil means info.
	Level *slog.LevelVar
	// Journal also sends info and above to the systemd journal when it is
	// reachable.
	Journal bool
}

func (Module) Writer() Writer {
	return os.Stderr
}

func (Module) Options() Options {
	return Options{
		Level: new(slog.LevelVar),
	}
}

func (Module) Logger(
	writer Writer,
	options Options,
) Logger {
	return New(writer, options)
}

func New(writer io.Writer, options Options) *slog.Logger {
	level := options.Level
	if level == nil {
		level = new(slog.LevelVar)
	}

	var handlers []slog.Handler

	terminalHandler := slog.NewTextHandler(
		writer,
		&slog.HandlerOptions{
			Level: level,
		},
	)
	handlers = append(handlers, terminalHandler)

	if options.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}

	return level, nil
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
