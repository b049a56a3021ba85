package logging

import (
	"context"
	"log/slog"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Wails adapts a slog.Logger to the logger interface the shell framework
// expects, so framework output shares our handler.
type Wails struct {
	L *slog.Logger
}

var _ logger.Logger = (*Wails)(nil)

func (w *Wails) log(level slog.Level, msg string) {
	w.L.Log(context.Background(), level, msg, "src", "wails")
}

func (w *Wails) Print(message string)   { w.log(slog.LevelInfo, message) }
func (w *Wails) Trace(message string)   { w.log(slog.LevelDebug-4, message) }
func (w *Wails) Debug(message string)   { w.log(slog.LevelDebug, message) }
func (w *Wails) Info(message string)    { w.log(slog.LevelInfo, message) }
func (w *Wails) Warning(message string) { w.log(slog.LevelWarn, message) }
func (w *Wails) Error(message string)   { w.log(slog.LevelError, message) }

// Fatal logs at error level. The framework exits the process itself.
func (w *Wails) Fatal(message string) { w.log(slog.LevelError+4, message) }

// WailsLevel maps a slog level to the framework's log level.
func WailsLevel(l slog.Level) logger.LogLevel {
	switch {
	case l < slog.LevelDebug:
		return logger.TRACE
	case l < slog.LevelInfo:
		return logger.DEBUG
	case l < slog.LevelWarn:
		return logger.INFO
	case l < slog.LevelError:
		return logger.WARNING
	default:
		return logger.ERROR
	}
}
