package extractor

import (
	"context"
	"errors"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/provider"
)

type Provider interface {
	Extract(ctx context.Context, input Input, options *ExtractOptions) (*Result, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
	ErrNoInput     = errors.New("no input")
)

type Feature string

const (
	FeatureTables Feature = "TABLES"
	FeatureForms  Feature = "FORMS"
)

var DefaultFeatures = []Feature{
	FeatureTables,
	FeatureForms,
}

type ExtractOptions struct {
	Features []Feature
}

type File = provider.File

type Input struct {
	URL string

	File *provider.File
}

type Result struct {
	Pages int

	Blocks []block.Block
}

func (o *ExtractOptions) FeatureList() []Feature {
	if o == nil || len(o.Features) == 0 {
		return DefaultFeatures
	}

	return o.Features
}
