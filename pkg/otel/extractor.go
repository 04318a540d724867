package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/docgraph/pkg/extractor"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type Extractor interface {
	Observable
	extractor.Provider
}

type observableExtractor struct {
	id      string
	library string

	duration metric.Float64Histogram
	blocks   metric.Int64Counter

	extractor extractor.Provider
}

func NewExtractor(library, id string, p extractor.Provider) Extractor {
	meter := otel.Meter(instrumentation)

	duration, _ := meter.Float64Histogram("docgraph.extractor.duration",
		metric.WithDescription("Duration of document analysis requests"),
		metric.WithUnit("s"))

	blocks, _ := meter.Int64Counter("docgraph.extractor.blocks",
		metric.WithDescription("Number of blocks returned by document analysis"))

	return &observableExtractor{
		id:      id,
		library: library,

		duration: duration,
		blocks:   blocks,

		extractor: p,
	}
}

func (p *observableExtractor) otelSetup() {
}

func (p *observableExtractor) Extract(ctx context.Context, input extractor.Input, options *extractor.ExtractOptions) (*extractor.Result, error) {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, "extract "+p.id)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("extractor.id", p.id),
		attribute.String("extractor.library", p.library),
	}

	span.SetAttributes(attrs...)

	if input.File != nil {
		span.SetAttributes(
			attribute.String("file.name", input.File.Name),
			attribute.Int("file.size", len(input.File.Content)),
		)
	}

	start := time.Now()
	result, err := p.extractor.Extract(ctx, input, options)

	p.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(
		attribute.Int("document.pages", result.Pages),
		attribute.Int("document.blocks", len(result.Blocks)),
	)

	p.blocks.Add(ctx, int64(len(result.Blocks)), metric.WithAttributes(attrs...))

	return result, nil
}
