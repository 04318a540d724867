package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/document"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/storage"
)

var (
	ErrNoExtractor = errors.New("no extractor configured")
)

// Pipeline turns analysis output into a serialized document tree and
// optionally persists it.
type Pipeline struct {
	extractor extractor.Provider
	storage   storage.Provider

	builder *document.Builder
	logger  *slog.Logger
}

type Option func(*Pipeline)

func WithStorage(s storage.Provider) Option {
	return func(p *Pipeline) {
		p.storage = s
	}
}

func WithBuilder(b *document.Builder) Option {
	return func(p *Pipeline) {
		p.builder = b
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a pipeline. The extractor may be nil when only Parse is used.
func New(e extractor.Provider, options ...Option) *Pipeline {
	p := &Pipeline{
		extractor: e,
	}

	for _, option := range options {
		option(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	if p.builder == nil {
		p.builder = document.NewBuilder(document.WithLogger(p.logger))
	}

	return p
}

type Options struct {
	Features []extractor.Feature

	// Name is the storage object name. Nothing is written when it is empty or
	// no storage is configured.
	Name string
}

type Result struct {
	Tree        *document.Tree
	Diagnostics []block.Warning

	// Data is the encoded tree, exactly as written to storage.
	Data []byte
}

func (p *Pipeline) Process(ctx context.Context, input extractor.Input, options *Options) (*Result, error) {
	if p.extractor == nil {
		return nil, ErrNoExtractor
	}

	if options == nil {
		options = new(Options)
	}

	extracted, err := p.extractor.Extract(ctx, input, &extractor.ExtractOptions{
		Features: options.Features,
	})

	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "document analyzed", "pages", extracted.Pages, "blocks", len(extracted.Blocks))

	result, err := p.Parse(ctx, extracted.Blocks)

	if err != nil {
		return nil, err
	}

	if err := p.Save(ctx, options.Name, result.Data); err != nil {
		return nil, err
	}

	return result, nil
}

// Parse builds and serializes already available blocks.
func (p *Pipeline) Parse(ctx context.Context, blocks []block.Block) (*Result, error) {
	store, err := block.Load(blocks)

	if err != nil {
		return nil, err
	}

	doc, warnings, err := p.builder.Build(ctx, store)

	if err != nil {
		return nil, err
	}

	tree := document.Serialize(doc)

	data, err := document.Marshal(tree)

	if err != nil {
		return nil, err
	}

	if len(warnings) > 0 {
		p.logger.InfoContext(ctx, "document built with diagnostics", "pages", len(tree.Pages), "diagnostics", len(warnings))
	}

	return &Result{
		Tree:        tree,
		Diagnostics: warnings,

		Data: data,
	}, nil
}

// Save writes data under name when storage is configured.
func (p *Pipeline) Save(ctx context.Context, name string, data []byte) error {
	if p.storage == nil || name == "" {
		return nil
	}

	if err := p.storage.Write(ctx, name, data); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "document stored", "name", name, "size", len(data))

	return nil
}
