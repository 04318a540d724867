package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/renderer"
)

func runRender(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)

	rendererID := fs.String("renderer", "", "Renderer id (default: first configured)")

	fs.Parse(args)

	if fs.NArg() != 2 {
		return errors.New("render requires an input and an output path")
	}

	r, err := cfg.Renderer(*rendererID)

	if err != nil {
		return err
	}

	data, err := os.ReadFile(fs.Arg(0))

	if err != nil {
		return err
	}

	result, err := r.Render(ctx, renderer.Input{
		File: &provider.File{
			Name:    filepath.Base(fs.Arg(0)),
			Content: data,
		},
	})

	if err != nil {
		return err
	}

	if err := os.WriteFile(fs.Arg(1), result.Content, 0o644); err != nil {
		return err
	}

	logger.Info("document rendered", "output", fs.Arg(1), "size", len(result.Content))

	return nil
}
