package renderer

import (
	"context"
	"errors"

	"github.com/adrianliechti/docgraph/pkg/provider"
)

// Provider produces PDF bytes, usually by invoking an external program.
type Provider interface {
	Render(ctx context.Context, input Input) (*provider.File, error)
}

var (
	ErrNoInput = errors.New("no input")
)

type Input struct {
	File *provider.File
}
