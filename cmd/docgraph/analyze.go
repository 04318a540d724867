package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/document"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/pipeline"
	"github.com/adrianliechti/docgraph/pkg/provider"
)

func runAnalyze(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)

	extractorID := fs.String("extractor", "", "Extractor id (default: first configured)")
	storageID := fs.String("storage", "", "Storage id to persist the result")
	output := fs.String("o", "", "Output object name (default: <input>_structured.json)")
	features := fs.String("features", "", "Comma separated analysis features")

	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("analyze requires exactly one input")
	}

	source := fs.Arg(0)

	e, err := cfg.Extractor(*extractorID)

	if err != nil {
		return err
	}

	options := []pipeline.Option{
		pipeline.WithBuilder(cfg.Builder(logger)),
		pipeline.WithLogger(logger),
	}

	name := *output

	if *storageID != "" {
		s, err := cfg.Storage(*storageID)

		if err != nil {
			return err
		}

		options = append(options, pipeline.WithStorage(s))

		if name == "" {
			name = structuredName(source)
		}
	}

	input, err := analyzeInput(source)

	if err != nil {
		return err
	}

	result, err := pipeline.New(e, options...).Process(ctx, input, &pipeline.Options{
		Features: splitFeatures(*features),
		Name:     name,
	})

	if err != nil {
		return err
	}

	logDiagnostics(logger, source, result)

	return document.Encode(os.Stdout, result.Tree)
}

func analyzeInput(source string) (extractor.Input, error) {
	if strings.Contains(source, "://") {
		return extractor.Input{URL: source}, nil
	}

	data, err := os.ReadFile(source)

	if err != nil {
		return extractor.Input{}, err
	}

	return extractor.Input{
		File: &provider.File{
			Name:    filepath.Base(source),
			Content: data,
		},
	}, nil
}

func splitFeatures(value string) []extractor.Feature {
	var result []extractor.Feature

	for _, f := range strings.Split(value, ",") {
		if f = strings.ToUpper(strings.TrimSpace(f)); f != "" {
			result = append(result, extractor.Feature(f))
		}
	}

	return result
}

func structuredName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_structured.json"
}

func logDiagnostics(logger *slog.Logger, source string, result *pipeline.Result) {
	for _, w := range result.Diagnostics {
		logger.Warn("document diagnostic", "source", source, "code", w.Code, "block", w.BlockID, "target", w.TargetID, "message", w.Message)
	}
}
