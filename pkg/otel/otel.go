package otel

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const instrumentation = "github.com/adrianliechti/docgraph"

// Observable marks providers that are already instrumented.
type Observable interface {
	otelSetup()
}

type Options struct {
	Service string

	// Endpoint is the OTLP/HTTP collector, e.g. http://localhost:4318.
	// Telemetry stays disabled if empty.
	Endpoint string
}

// Setup installs global trace, metric and log providers exporting to the
// configured collector and returns a shutdown function. The returned logger
// writes to both the given handler and the collector.
func Setup(ctx context.Context, options Options, handler slog.Handler) (*slog.Logger, func(context.Context) error, error) {
	if options.Endpoint == "" {
		return slog.New(handler), func(context.Context) error { return nil }, nil
	}

	if options.Service == "" {
		options.Service = "docgraph"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", options.Service)),
	)

	if err != nil {
		return nil, nil, err
	}

	traceExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(options.Endpoint))

	if err != nil {
		return nil, nil, err
	}

	metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(options.Endpoint))

	if err != nil {
		return nil, nil, err
	}

	logExporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(options.Endpoint))

	if err != nil {
		return nil, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	global.SetLoggerProvider(loggerProvider)

	logger := slog.New(&fanout{
		handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(instrumentation, otelslog.WithLoggerProvider(loggerProvider)),
		},
	})

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
			loggerProvider.Shutdown(ctx),
		)
	}

	return logger, shutdown, nil
}
