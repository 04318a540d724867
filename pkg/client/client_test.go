package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testResponse = `{
	"document": {"pages": [{"page_number": 1, "content": {"lines": [{"text": "Hello", "geometry": null, "words": []}], "tables": [], "forms": []}}]},
	"diagnostics": [{"code": "dangling_reference", "block_id": "P1", "target_id": "X1"}]
}`

func TestDocumentsNew(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/documents", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "textract", r.FormValue("extractor"))
		require.Equal(t, "TABLES,FORMS", r.FormValue("features"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)

		data, _ := io.ReadAll(f)
		require.Equal(t, "scan.pdf", header.Filename)
		require.Equal(t, "%PDF-1.7", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testResponse))
	}))

	defer ts.Close()

	c := New(ts.URL, WithToken("secret"))

	result, err := c.Documents.New(context.Background(), DocumentRequest{
		Name:   "scan.pdf",
		Reader: strings.NewReader("%PDF-1.7"),

		Extractor: "textract",
		Features:  []string{"TABLES", "FORMS"},
	})

	require.NoError(t, err)
	require.Equal(t, "Hello", result.Document.Pages[0].Content.Lines[0].Text)
	require.Equal(t, "dangling_reference", result.Diagnostics[0].Code)
}

func TestDocumentsParse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/documents/parse", r.URL.Path)
		require.Equal(t, "1000", r.URL.Query().Get("scale"))

		w.Write([]byte(testResponse))
	}))

	defer ts.Close()

	result, err := New(ts.URL).Documents.Parse(context.Background(), ParseRequest{
		Response: strings.NewReader(`{"Blocks": []}`),
		Scale:    1000,
	})

	require.NoError(t, err)
	require.Len(t, result.Document.Pages, 1)
}

func TestDocumentsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error": {"type": "upstream_error", "message": "throttled"}}`))
	}))

	defer ts.Close()

	_, err := New(ts.URL).Documents.Parse(context.Background(), ParseRequest{
		Response: strings.NewReader(`{}`),
	})

	var e *Error
	require.True(t, errors.As(err, &e))
	require.Equal(t, http.StatusBadGateway, e.StatusCode)
	require.Equal(t, "upstream_error", e.Type)
	require.Equal(t, "throttled", e.Message)
}
