package otel

import (
	"context"

	"github.com/adrianliechti/docgraph/pkg/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Storage interface {
	Observable
	storage.Provider
}

type observableStorage struct {
	id      string
	library string

	storage storage.Provider
}

func NewStorage(library, id string, p storage.Provider) Storage {
	return &observableStorage{
		id:      id,
		library: library,

		storage: p,
	}
}

func (p *observableStorage) otelSetup() {
}

func (p *observableStorage) Write(ctx context.Context, name string, data []byte) error {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, "write "+p.id)
	defer span.End()

	span.SetAttributes(
		attribute.String("storage.id", p.id),
		attribute.String("storage.library", p.library),
		attribute.String("object.name", name),
		attribute.Int("object.size", len(data)),
	)

	if err := p.storage.Write(ctx, name, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	return nil
}
