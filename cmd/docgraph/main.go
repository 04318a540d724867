package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/otel"

	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to configuration file")
	envFile := flag.String("env", ".env", "Path to environment file")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(2)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading env file %s: %v\n", *envFile, err)
	}

	level := slog.LevelInfo

	if *debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(*configFile)

	if err != nil {
		slog.New(handler).Error("failed to load config", "path", *configFile, "error", err)
		os.Exit(1)
	}

	logger, shutdown, err := otel.Setup(ctx, cfg.Telemetry, handler)

	if err != nil {
		slog.New(handler).Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger)

	command, args := flag.Arg(0), flag.Args()[1:]

	switch command {
	case "analyze":
		err = runAnalyze(ctx, cfg, logger, args)
	case "parse":
		err = runParse(ctx, cfg, logger, args)
	case "render":
		err = runRender(ctx, cfg, logger, args)
	case "serve":
		err = runServe(ctx, cfg, logger, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(2)
	}

	shutdown(context.Background())

	if err != nil {
		logger.Error(command+" failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to defaults when the default file is
// absent so that offline commands work without configuration.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Parse(path)

	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return cfg, err
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `docgraph - turn document analysis blocks into structured documents

usage:
  docgraph [-config file] [-env file] [-debug] <command> [flags] [args]

commands:
  analyze  [-extractor id] [-storage id] [-o name] [-features TABLES,FORMS] <file|s3://bucket/key>
  parse    [-scale n] [-workers n] <input-dir> <output-dir>
  render   [-renderer id] <input> <output.pdf>
  serve    [-addr :8080]
`)
}
