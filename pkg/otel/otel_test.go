package otel

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/extractor"

	"github.com/stretchr/testify/require"
)

type staticExtractor struct {
	result *extractor.Result
	err    error
}

func (e *staticExtractor) Extract(ctx context.Context, input extractor.Input, options *extractor.ExtractOptions) (*extractor.Result, error) {
	return e.result, e.err
}

type memoryStorage map[string][]byte

func (s memoryStorage) Write(ctx context.Context, name string, data []byte) error {
	s[name] = data
	return nil
}

func TestExtractorPassthrough(t *testing.T) {
	expected := &extractor.Result{
		Pages:  1,
		Blocks: []block.Block{{ID: "P1", Type: block.TypePage}},
	}

	p := NewExtractor("file", "saved", &staticExtractor{result: expected})

	result, err := p.Extract(context.Background(), extractor.Input{
		File: &extractor.File{Name: "a.json"},
	}, nil)

	require.NoError(t, err)
	require.Same(t, expected, result)

	var _ Observable = p
}

func TestExtractorError(t *testing.T) {
	boom := errors.New("boom")

	p := NewExtractor("file", "saved", &staticExtractor{err: boom})

	_, err := p.Extract(context.Background(), extractor.Input{}, nil)
	require.ErrorIs(t, err, boom)
}

func TestStoragePassthrough(t *testing.T) {
	mem := memoryStorage{}

	p := NewStorage("memory", "out", mem)

	require.NoError(t, p.Write(context.Background(), "doc.json", []byte("{}")))
	require.Equal(t, []byte("{}"), mem["doc.json"])
}

func TestSetupDisabled(t *testing.T) {
	var buf bytes.Buffer

	logger, shutdown, err := Setup(context.Background(), Options{}, slog.NewTextHandler(&buf, nil))
	require.NoError(t, err)

	logger.Info("hello", "pages", 2)
	require.Contains(t, buf.String(), "pages=2")

	require.NoError(t, shutdown(context.Background()))
}

func TestFanout(t *testing.T) {
	var info, debug bytes.Buffer

	h := &fanout{
		handlers: []slog.Handler{
			slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
			slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		},
	}

	logger := slog.New(h).With("component", "test")

	logger.Debug("details")
	logger.Info("summary")

	require.NotContains(t, info.String(), "details")
	require.Contains(t, info.String(), "summary")
	require.Contains(t, debug.String(), "details")
	require.Contains(t, debug.String(), "component=test")
}
