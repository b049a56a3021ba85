package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"coursehost/frontend"
	"coursehost/internal/app"
	"coursehost/internal/assets"
	"coursehost/internal/config"
	"coursehost/internal/diag"
	"coursehost/internal/logging"
	"coursehost/internal/model"
	"coursehost/internal/shell"
	"coursehost/internal/tui"
	"coursehost/internal/update"
	"coursehost/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: coursehost [options]\n\n")
		fmt.Fprintf(os.Stderr, "coursehost is the desktop shell for the courseware frontend.\n")
		fmt.Fprintf(os.Stderr, "Without options it opens the application window.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  coursehost                   # Open the application\n")
		fmt.Fprintf(os.Stderr, "  coursehost --diagnostics     # Open it and print a startup asset report\n")
		fmt.Fprintf(os.Stderr, "  coursehost --inspect         # Browse the asset report in the terminal\n")
		fmt.Fprintf(os.Stderr, "  coursehost --serve -d dist   # Preview a bundle in the browser\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Configuration file (YAML)")
	diagnosticsFlag := pflag.BoolP("diagnostics", "D", false, "Print the packaged frontend report at startup")
	inspectFlag := pflag.BoolP("inspect", "i", false, "Browse the packaged frontend report in a terminal UI")
	serveFlag := pflag.BoolP("serve", "s", false, "Serve the frontend bundle for browser preview")
	distFlag := pflag.StringP("dist", "d", "", "Serve this directory instead of the embedded bundle (with --serve)")
	logLevelFlag := pflag.String("log-level", "info", "Log level (debug, info, warn, error)")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for a newer release")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("%s version %s\n", model.AppName, model.Version)
		return
	}

	ll, err := logging.ParseLevel(*logLevelFlag)
	if err != nil {
		fatal(err)
	}
	logger := logging.New(os.Stderr, ll)
	slog.SetDefault(logger)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}

	if *updateFlag {
		src, err := update.Source(cfg.Update.Owner, cfg.Update.Repository)
		if err != nil {
			fatal(err)
		}
		update.Check(os.Stdout, src, cfg.Update.Owner, cfg.Update.Repository, model.Version, true)
		return
	}

	if *inspectFlag {
		runInspectMode(cfg)
		return
	}

	if *serveFlag {
		if err := runServeMode(cfg, logger, *distFlag); err != nil {
			fatal(err)
		}
		return
	}

	// Default: desktop application
	runAppMode(cfg, logger, cfg.Diagnostics || *diagnosticsFlag)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", model.AppName, err)
	os.Exit(1)
}

func runAppMode(cfg *config.Config, logger *slog.Logger, diagnostics bool) {
	a, err := newApp(cfg, logger, diagnostics)
	if err != nil {
		fatal(err)
	}
	a.RunOrExit(app.WailsRunner, os.Stderr, os.Exit)
}

// newApp builds the shell with its plugins and, when asked, the startup
// diagnostics hook.
func newApp(cfg *config.Config, logger *slog.Logger, diagnostics bool) (*app.App, error) {
	a := app.New(cfg, frontend.Dist(), logger)

	sh, err := shell.New(cfg.Shell, logger)
	if err != nil {
		return nil, err
	}
	if err := a.Register(sh); err != nil {
		return nil, err
	}

	if diagnostics {
		hook := &diag.Hook{
			Out:      logging.New(os.Stdout, slog.LevelInfo),
			Entry:    cfg.Frontend.Entry,
			Embedded: frontend.Dist(),
		}
		if err := a.Setup(hook.Run); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func runInspectMode(cfg *config.Config) {
	m := tui.InitialModel(func() ([]model.Source, error) {
		return diag.Collect(frontend.Dist(), cfg.Frontend.Entry, nil)
	})
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func runServeMode(cfg *config.Config, logger *slog.Logger, dist string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bundle := frontend.Dist()
	report := func() []model.AssetReport {
		sources, err := diag.Collect(bundle, cfg.Frontend.Entry, nil)
		if err != nil {
			logger.Debug("resource directory", "err", err)
		}
		reports := make([]model.AssetReport, 0, len(sources))
		for _, s := range sources {
			reports = append(reports, s.Report)
		}
		return reports
	}

	if dist != "" {
		abs, err := filepath.Abs(dist)
		if err != nil {
			return err
		}
		bundle = os.DirFS(abs)
		report = func() []model.AssetReport {
			return []model.AssetReport{assets.InspectDir("dist", abs, cfg.Frontend.Entry)}
		}
		assets.Emit(ctx, logger, slog.LevelWarn, report()[0])
		go func() {
			err := web.Watch(ctx, logger, abs, func() {
				assets.Emit(ctx, logger, slog.LevelWarn, report()[0])
			})
			if err != nil {
				logger.Warn("not watching bundle", "err", err)
			}
		}()
	}

	err := web.Serve(ctx, logger, cfg.Preview.Addr, web.NewHandler(bundle, cfg.Frontend.Entry, report))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
