// Package diag holds the startup diagnostics.
//
// Nothing here may change application behavior: every check runs inside
// Guard, which turns failures into log lines.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Guard runs fn and logs a returned error or a panic instead of propagating
// it. It always returns normally.
func Guard(ctx context.Context, logger *slog.Logger, name string, fn func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("diagnostic panicked", "name", name, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	if err := fn(ctx); err != nil {
		logger.Error("diagnostic failed", "name", name, "err", err)
	}
}
