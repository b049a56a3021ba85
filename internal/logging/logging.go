// Package logging builds the process logger.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// New returns a tint logger writing to f. Colors are only used on terminals.
func New(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(f), &tint.Options{
		Level:       level,
		TimeFormat:  "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:     !isatty.IsTerminal(f.Fd()),
		ReplaceAttr: dropEmpty,
	}))
}

func dropEmpty(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
		return a
	}
	skip := false
	switch t := a.Value.Any().(type) {
	case string:
		skip = t == ""
	case nil:
		skip = true
	}
	if skip {
		return slog.Attr{}
	}
	return a
}
