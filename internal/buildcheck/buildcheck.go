// Package buildcheck is the build-time sanity check of the frontend bundle.
//
// It reports on the dist directory and then hands over to the shell
// framework's build. The report never affects the build outcome.
package buildcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"coursehost/internal/assets"
	"coursehost/internal/model"
)

// Builder is the framework build step the check delegates to.
type Builder interface {
	Build(ctx context.Context) error
}

// WailsBuilder runs "wails build" in Dir.
type WailsBuilder struct {
	Dir    string
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// Build runs the framework build and returns its error, if any.
func (w *WailsBuilder) Build(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "wails", append([]string{"build"}, w.Args...)...)
	cmd.Dir = w.Dir
	cmd.Stdout = w.Stdout
	cmd.Stderr = w.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wails build: %w", err)
	}
	return nil
}

// Options configures a check.
type Options struct {
	Root      string // Project root
	Dist      string // Dist directory, relative to Root unless absolute
	Entry     string // Entry file expected inside Dist
	SkipBuild bool   // Only report; used from go:generate
}

// Run inspects the dist directory, logs where it looked and the report at
// warning level, then
// runs b unless SkipBuild is set. Only b's result is returned.
func Run(ctx context.Context, logger *slog.Logger, opts Options, b Builder) (model.AssetReport, error) {
	dir := assets.DistDir(opts.Root, opts.Dist)
	cwd, _ := os.Getwd()
	logger.Log(ctx, slog.LevelWarn, "Checking dist directory", "dir", dir, "cwd", cwd)
	r := assets.InspectDir("dist", dir, opts.Entry)
	assets.Emit(ctx, logger, slog.LevelWarn, r)
	if opts.SkipBuild || b == nil {
		return r, nil
	}
	return r, b.Build(ctx)
}
