package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/document"
	"github.com/adrianliechti/docgraph/pkg/extractor/file"
	"github.com/adrianliechti/docgraph/pkg/geometry"
	"github.com/adrianliechti/docgraph/pkg/pipeline"
	"github.com/adrianliechti/docgraph/pkg/storage/local"
)

func runParse(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	scale := fs.Float64("scale", 0, "Coordinate scale factor (default: configured builder scale)")
	workers := fs.Int("workers", cfg.Workers, "Parallel page workers")

	fs.Parse(args)

	if fs.NArg() != 2 {
		return errors.New("parse requires an input and an output directory")
	}

	s := cfg.Scale

	if *scale > 0 {
		s = geometry.Scale{X: *scale, Y: *scale}
	}

	builder := document.NewBuilder(
		document.WithScale(s),
		document.WithWorkers(*workers),
		document.WithLogger(logger),
	)

	return parseDir(ctx, logger, builder, fs.Arg(0), fs.Arg(1))
}

// parseDir converts every saved response in inDir into <name>_structured.json
// in outDir. Failing files are reported and skipped.
func parseDir(ctx context.Context, logger *slog.Logger, builder *document.Builder, inDir, outDir string) error {
	entries, err := os.ReadDir(inDir)

	if err != nil {
		return err
	}

	store, err := local.New(outDir)

	if err != nil {
		return err
	}

	p := pipeline.New(nil,
		pipeline.WithBuilder(builder),
		pipeline.WithStorage(store),
		pipeline.WithLogger(logger),
	)

	var names []string

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}

		names = append(names, e.Name())
	}

	slices.Sort(names)

	var failed int

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := parseFile(ctx, p, filepath.Join(inDir, name), logger); err != nil {
			logger.Error("failed to convert response", "file", name, "error", err)
			failed++

			continue
		}

		logger.Info("converted response", "file", name, "output", structuredName(name))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(names))
	}

	return nil
}

func parseFile(ctx context.Context, p *pipeline.Pipeline, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return err
	}

	extracted, err := file.Parse(data)

	if err != nil {
		return err
	}

	result, err := p.Parse(ctx, extracted.Blocks)

	if err != nil {
		return err
	}

	logDiagnostics(logger, path, result)

	return p.Save(ctx, structuredName(path), result.Data)
}
