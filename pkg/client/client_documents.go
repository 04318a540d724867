package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/adrianliechti/docgraph/pkg/document"
)

type DocumentService struct {
	Options []RequestOption
}

func NewDocumentService(opts ...RequestOption) DocumentService {
	return DocumentService{
		Options: opts,
	}
}

type Document struct {
	Document *document.Tree `json:"document"`

	Diagnostics []Diagnostic `json:"diagnostics"`
}

type Diagnostic struct {
	Code string `json:"code"`

	BlockID  string `json:"block_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	Message string `json:"message,omitempty"`
}

// Error is returned for non-success responses.
type Error struct {
	StatusCode int

	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
}

type DocumentRequest struct {
	Name   string
	Reader io.Reader

	Extractor string
	Features  []string

	// Storage and Output persist the result on the server side.
	Storage string
	Output  string
}

type ParseRequest struct {
	// Response is a saved analysis response.
	Response io.Reader

	Scale float64
}

func (r *DocumentService) New(ctx context.Context, input DocumentRequest, opts ...RequestOption) (*Document, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	var data bytes.Buffer
	w := multipart.NewWriter(&data)

	if input.Extractor != "" {
		w.WriteField("extractor", input.Extractor)
	}

	if len(input.Features) > 0 {
		w.WriteField("features", strings.Join(input.Features, ","))
	}

	if input.Storage != "" {
		w.WriteField("storage", input.Storage)
	}

	if input.Output != "" {
		w.WriteField("name", input.Output)
	}

	f, err := w.CreateFormFile("file", input.Name)

	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(f, input.Reader); err != nil {
		return nil, err
	}

	w.Close()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL+"/v1/documents", &data)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return do(cfg, req)
}

func (r *DocumentService) Parse(ctx context.Context, input ParseRequest, opts ...RequestOption) (*Document, error) {
	cfg := newRequestConfig(append(r.Options, opts...)...)

	u := cfg.URL + "/v1/documents/parse"

	if input.Scale > 0 {
		u += "?" + url.Values{"scale": {strconv.FormatFloat(input.Scale, 'g', -1, 64)}}.Encode()
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, u, input.Response)
	req.Header.Set("Content-Type", "application/json")

	return do(cfg, req)
}

func do(cfg *RequestConfig, req *http.Request) (*Document, error) {
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := cfg.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e := &Error{
			StatusCode: resp.StatusCode,
		}

		var body struct {
			Error *Error `json:"error"`
		}

		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error != nil {
			e.Type = body.Error.Type
			e.Message = body.Error.Message
		}

		return nil, e
	}

	var result Document

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}
