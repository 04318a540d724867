package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/extractor/file"
	"github.com/adrianliechti/docgraph/pkg/provider"
	"github.com/adrianliechti/docgraph/pkg/storage/local"
	"github.com/adrianliechti/docgraph/server/api"

	"github.com/stretchr/testify/require"
)

type failingExtractor struct{}

func (failingExtractor) Extract(ctx context.Context, input extractor.Input, options *extractor.ExtractOptions) (*extractor.Result, error) {
	return nil, provider.Wrap("textract: analyze document", errors.New("connection reset"))
}

func testResponse(t *testing.T) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "pkg", "extractor", "file", "testdata", "response.json"))
	require.NoError(t, err)

	return data
}

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	cfg := config.Default()

	saved, err := file.New()
	require.NoError(t, err)

	cfg.RegisterExtractor("saved", saved)
	cfg.RegisterExtractor("broken", failingExtractor{})

	dir := t.TempDir()

	s, err := local.New(dir)
	require.NoError(t, err)

	cfg.RegisterStorage("local", s)

	ts := httptest.NewServer(New(cfg, nil))
	t.Cleanup(ts.Close)

	return ts, dir
}

func upload(t *testing.T, url string, fields map[string]string, data []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	part, err := w.CreateFormFile("file", "invoice.json")
	require.NoError(t, err)

	part.Write(data)
	require.NoError(t, w.Close())

	resp, err := http.Post(url+"/v1/documents", w.FormDataContentType(), &body)
	require.NoError(t, err)

	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestDocuments(t *testing.T) {
	ts, dir := newTestServer(t)

	resp := upload(t, ts.URL, map[string]string{"extractor": "saved", "storage": "local"}, testResponse(t))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.DocumentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Len(t, result.Document.Pages, 1)
	require.Equal(t, "Hello World", result.Document.Pages[0].Content.Lines[0].Text)
	require.NotNil(t, result.Diagnostics)

	stored, err := os.ReadFile(filepath.Join(dir, "invoice_structured.json"))
	require.NoError(t, err)
	require.Contains(t, string(stored), `"page_number": 1`)
}

func TestDocumentsErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	t.Run("upstream", func(t *testing.T) {
		resp := upload(t, ts.URL, map[string]string{"extractor": "broken"}, []byte("%PDF-"))
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var result api.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		require.Equal(t, "upstream_error", result.Error.Type)
	})

	t.Run("unknown extractor", func(t *testing.T) {
		resp := upload(t, ts.URL, map[string]string{"extractor": "missing"}, []byte("{}"))
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/v1/documents", "multipart/form-data; boundary=x", bytes.NewBufferString("--x--\r\n"))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestParse(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1/documents/parse?scale=1000", "application/json", bytes.NewReader(testResponse(t)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result api.DocumentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	require.Len(t, result.Document.Pages, 1)
	require.InDelta(t, 50, result.Document.Pages[0].Content.Lines[0].Geometry.BoundingBox.Top, 1e-9)
}

func TestParseErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed", "/v1/documents/parse", `not json`},
		{"duplicate id", "/v1/documents/parse", `{"Blocks": [{"Id": "P1", "BlockType": "PAGE"}, {"Id": "P1", "BlockType": "PAGE"}]}`},
		{"cycle", "/v1/documents/parse", `{"Blocks": [{"Id": "P1", "BlockType": "PAGE", "Relationships": [{"Type": "CHILD", "Ids": ["P1"]}]}]}`},
		{"invalid scale", "/v1/documents/parse?scale=abc", `{"Blocks": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
