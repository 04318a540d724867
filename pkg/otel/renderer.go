package otel

import (
	"context"

	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/renderer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Renderer interface {
	Observable
	renderer.Provider
}

type observableRenderer struct {
	id      string
	library string

	renderer renderer.Provider
}

func NewRenderer(library, id string, p renderer.Provider) Renderer {
	return &observableRenderer{
		id:      id,
		library: library,

		renderer: p,
	}
}

func (p *observableRenderer) otelSetup() {
}

func (p *observableRenderer) Render(ctx context.Context, input renderer.Input) (*provider.File, error) {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, "render "+p.id)
	defer span.End()

	span.SetAttributes(
		attribute.String("renderer.id", p.id),
		attribute.String("renderer.library", p.library),
	)

	result, err := p.renderer.Render(ctx, input)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Int("file.size", len(result.Content)))

	return result, nil
}
