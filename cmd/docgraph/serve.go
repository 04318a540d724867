package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/server"
)

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	addr := fs.String("addr", ":8080", "Listen address")

	fs.Parse(args)

	return server.New(cfg, logger).ListenAndServe(ctx, *addr)
}
