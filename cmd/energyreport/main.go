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
	"time"

	"github.com/joho/godotenv"

	"github.com/milad/energyreport/internal/config"
	"github.com/milad/energyreport/internal/logging"
	"github.com/milad/energyreport/internal/metrics"
	"github.com/milad/energyreport/internal/repo/csvrepo"
	"github.com/milad/energyreport/internal/report"
	"github.com/milad/energyreport/internal/service"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("energyreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgPath  = fs.String("config", os.Getenv(config.EnvConfigFile), "path to YAML config file")
		csvPath  = fs.String("csv", "", "path to the energy readings CSV (overrides config)")
		logLevel = fs.String("log-level", "", "log level: debug, info, warn, error")
		logFmt   = fs.String("log-format", "", "log format: console or json")
		textfile = fs.String("metrics-textfile", "", "write Prometheus metrics to this file after the run")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFatal
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "csv":
			cfg.Input.CSVPath = *csvPath
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-format":
			cfg.Logging.Format = *logFmt
		case "metrics-textfile":
			cfg.Metrics.Textfile = *textfile
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitFatal
	}

	logger := logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format)
	rec := metrics.NewRecorder()

	start := time.Now()
	src := csvrepo.NewSource(cfg.Input.CSVPath)
	svc := service.NewEnergyReportService(src, logger)
	summary, err := svc.Summarize(ctx)

	code := exitOK
	switch {
	case errors.Is(err, service.ErrNoValidData):
		if werr := report.WriteNoData(stdout); werr != nil {
			logger.Error().Err(werr).Msg("write output")
			code = exitFatal
		}
	case err != nil:
		logger.Error().Err(err).Str("csv", src.Path()).Msg("failed to read energy data")
		code = exitFatal
	default:
		if werr := report.WriteText(stdout, summary); werr != nil {
			logger.Error().Err(werr).Msg("write report")
			code = exitFatal
		}
	}

	finished := time.Now()
	rec.ObserveRun(summary, err == nil && code == exitOK, finished, finished.Sub(start))
	if cfg.Metrics.Textfile != "" {
		if werr := rec.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Error().Err(werr).Str("path", cfg.Metrics.Textfile).Msg("write metrics textfile")
		} else {
			logger.Debug().Str("path", cfg.Metrics.Textfile).Msg("metrics written")
		}
	}

	return code
}
