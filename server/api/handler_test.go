package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/extractor"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type countingExtractor struct {
	calls int
}

func (e *countingExtractor) Extract(ctx context.Context, input extractor.Input, options *extractor.ExtractOptions) (*extractor.Result, error) {
	e.calls++
	return &extractor.Result{}, nil
}

func newTestHandler(t *testing.T, limit int64) (*httptest.Server, *countingExtractor) {
	t.Helper()

	e := &countingExtractor{}

	cfg := config.Default()
	cfg.RegisterExtractor("counting", e)

	h := New(cfg, nil)
	h.maxUploadSize = limit

	r := chi.NewRouter()
	h.Attach(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return ts, e
}

func TestDocumentsUploadLimit(t *testing.T) {
	ts, e := newTestHandler(t, 1024)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "scan.pdf")
	require.NoError(t, err)

	part.Write(bytes.Repeat([]byte("x"), 64*1024))
	require.NoError(t, w.Close())

	resp, err := http.Post(ts.URL+"/documents", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Contains(t, []int{http.StatusRequestEntityTooLarge, http.StatusBadRequest}, resp.StatusCode)
	require.Zero(t, e.calls)
}

func TestDocumentsWithinLimit(t *testing.T) {
	ts, e := newTestHandler(t, 1024)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", "scan.json")
	require.NoError(t, err)

	part.Write([]byte(`{"Blocks": []}`))
	require.NoError(t, w.Close())

	resp, err := http.Post(ts.URL+"/documents", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, e.calls)
}

func TestParseUploadLimit(t *testing.T) {
	ts, _ := newTestHandler(t, 16)

	resp, err := http.Post(ts.URL+"/documents/parse", "application/json", strings.NewReader(`{"Blocks": [], "DocumentMetadata": {"Pages": 0}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
