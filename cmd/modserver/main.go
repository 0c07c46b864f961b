// Command modserver serves waveform generation over HTTP.
//
// Usage:
//
//	modserver [-config scenario.yaml] [-addr :8080]
//
// LOG_LEVEL and LOG_FORMAT override the log section of the scenario.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-modulation/dsp/modulation"
	"github.com/cwbudde/algo-modulation/internal/config"
	"github.com/cwbudde/algo-modulation/internal/logging"
	"github.com/cwbudde/algo-modulation/internal/observability"
	"github.com/cwbudde/algo-modulation/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("modserver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML scenario file")
	addr := fs.String("addr", "", "listen address (overrides the scenario)")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *version {
		fmt.Fprintln(stderr, server.Version)
		return 0
	}

	cfg := config.Default(modulation.SchemeAM)
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logCfg := cfg.Log
	logCfg.Output = stderr
	log := logging.NewFromEnv(logCfg)

	metrics, err := observability.NewGenerationCollector(nil)
	if err != nil {
		log.Error(ctx, "register metrics", logging.Err(err))
		return 1
	}

	srv := server.New(cfg.Server, log, metrics)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error(ctx, "server stopped", logging.Err(err))
		return 1
	}
	log.Info(ctx, "server stopped")
	return 0
}
