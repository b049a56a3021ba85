// Package app bootstraps the desktop shell.
//
// An App owns the plugin registry and the optional setup hook. It is
// constructed once in main and handed to a Runner, which owns the process
// until the event loop exits.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"coursehost/internal/config"
	"coursehost/internal/diag"
	"coursehost/internal/logging"
	"coursehost/internal/model"
)

var (
	// ErrDuplicatePlugin is returned when a plugin name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")
	// ErrStarted is returned when the app is modified or run after Run.
	ErrStarted = errors.New("application already started")
)

// Plugin is a capability exposed to the frontend.
type Plugin interface {
	Name() string
	// Bindings returns the object whose exported methods the frontend calls.
	Bindings() any
	// Start is called once the shell is initialized.
	Start(ctx context.Context) error
	// Stop is called when the shell shuts down.
	Stop(ctx context.Context)
}

// SetupFunc runs once after initialization, before the event loop.
type SetupFunc func(ctx context.Context) error

// State is the lifecycle state of an App.
type State int

const (
	NotStarted State = iota
	Running
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Runner runs the event loop with the given options and blocks until it exits.
type Runner interface {
	Run(opts *options.App) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(opts *options.App) error

func (f RunnerFunc) Run(opts *options.App) error { return f(opts) }

// WailsRunner runs the real shell.
var WailsRunner Runner = RunnerFunc(wails.Run)

// App is the application shell.
type App struct {
	cfg    *config.Config
	assets fs.FS
	logger *slog.Logger

	mu      sync.Mutex
	plugins []Plugin
	setup   SetupFunc
	started bool
	state   State
}

// New returns an App serving assets, a filesystem rooted at the frontend's
// dist directory.
func New(cfg *config.Config, assets fs.FS, logger *slog.Logger) *App {
	return &App{cfg: cfg, assets: assets, logger: logger}
}

// Register adds a plugin. Names must be unique.
func (a *App) Register(p Plugin) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrStarted
	}
	for _, q := range a.plugins {
		if q.Name() == p.Name() {
			return fmt.Errorf("%q: %w", p.Name(), ErrDuplicatePlugin)
		}
	}
	a.plugins = append(a.plugins, p)
	a.logger.Debug("plugin registered", "name", p.Name())
	return nil
}

// Plugins returns the registered plugin names in registration order.
func (a *App) Plugins() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, len(a.plugins))
	for i, p := range a.plugins {
		names[i] = p.Name()
	}
	return names
}

// Setup attaches the one-time setup hook, replacing any previous one.
func (a *App) Setup(fn SetupFunc) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return ErrStarted
	}
	a.setup = fn
	return nil
}

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Run hands the shell options to r and blocks until the event loop exits.
func (a *App) Run(r Runner) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return ErrStarted
	}
	a.started = true
	opts := a.optionsLocked()
	a.mu.Unlock()

	if err := r.Run(opts); err != nil {
		a.mu.Lock()
		a.state = Failed
		a.mu.Unlock()
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// RunOrExit runs the app and terminates the process through exit with a
// non-zero code when startup fails.
func (a *App) RunOrExit(r Runner, stderr io.Writer, exit func(int)) {
	if err := a.Run(r); err != nil {
		a.logger.Error("startup failed", "err", err)
		fmt.Fprintf(stderr, "%s: %v\n", model.AppName, err)
		exit(1)
	}
}

func (a *App) optionsLocked() *options.App {
	bind := make([]any, 0, len(a.plugins))
	for _, p := range a.plugins {
		bind = append(bind, p.Bindings())
	}
	return &options.App{
		Title:  a.cfg.App.Title,
		Width:  a.cfg.App.Width,
		Height: a.cfg.App.Height,
		AssetServer: &assetserver.Options{
			Assets: a.assets,
		},
		OnStartup:  a.startup,
		OnShutdown: a.shutdown,
		Bind:       bind,
		Logger:     &logging.Wails{L: a.logger},
		LogLevel:   logging.WailsLevel(minLevel(a.logger)),
	}
}

// minLevel returns the lowest level l is enabled for.
func minLevel(l *slog.Logger) slog.Level {
	for _, lv := range []slog.Level{slog.LevelDebug - 4, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), lv) {
			return lv
		}
	}
	return slog.LevelError
}

func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.state = Running
	plugins := append([]Plugin(nil), a.plugins...)
	setup := a.setup
	a.mu.Unlock()

	for _, p := range plugins {
		if err := p.Start(ctx); err != nil {
			a.logger.Error("plugin failed to start", "name", p.Name(), "err", err)
		}
	}
	if setup != nil {
		diag.Guard(ctx, a.logger, "setup", setup)
	}
	a.logger.Info("application running", "plugins", len(plugins))
}

func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	plugins := append([]Plugin(nil), a.plugins...)
	a.mu.Unlock()
	for _, p := range plugins {
		p.Stop(ctx)
	}
}
