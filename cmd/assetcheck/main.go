// Command assetcheck reports on the compiled frontend bundle, then runs the
// desktop build.
//
// Arguments after "--" are passed to "wails build".
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"coursehost/internal/buildcheck"
	"coursehost/internal/config"
	"coursehost/internal/logging"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "assetcheck: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: assetcheck [options] [-- wails build args]\n\n")
		fmt.Fprintf(os.Stderr, "Checks that the frontend bundle exists, then runs wails build.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
	}
	root := pflag.StringP("root", "C", ".", "Project root")
	configPath := pflag.StringP("config", "c", "", "Configuration file")
	skipBuild := pflag.Bool("skip-build", false, "Only report, do not run wails build")
	logLevel := pflag.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pflag.Parse()

	ll, err := logging.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, ll)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := buildcheck.Options{
		Root:      *root,
		Dist:      cfg.Frontend.Dist,
		Entry:     cfg.Frontend.Entry,
		SkipBuild: *skipBuild,
	}
	builder := &buildcheck.WailsBuilder{Dir: *root, Args: pflag.Args()}
	_, err = buildcheck.Run(ctx, logger, opts, builder)
	return err
}
