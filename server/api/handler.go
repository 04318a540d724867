package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adrianliechti/docgraph/config"
	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/extractor/file"
	"github.com/adrianliechti/docgraph/pkg/provider"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	*config.Config

	logger *slog.Logger

	maxUploadSize int64
}

func New(cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		Config: cfg,

		logger: logger,

		maxUploadSize: 64 << 20,
	}
}

func (h *Handler) Attach(r chi.Router) {
	r.Post("/documents", h.handleDocuments)
	r.Post("/documents/parse", h.handleParse)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	errorType := "invalid_request_error"

	if code == http.StatusNotFound {
		errorType = "not_found_error"
	} else if code == http.StatusBadGateway {
		errorType = "upstream_error"
	} else if code >= 500 {
		errorType = "api_error"
	}

	resp := ErrorResponse{
		Error: Error{
			Type:    errorType,
			Message: err.Error(),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(resp)
}

// statusCode maps build and collaborator failures to a response status.
func statusCode(err error) int {
	var schemaErr *block.SchemaError
	var graphErr *block.GraphError
	var ioErr *provider.IOError

	switch {
	case errors.As(err, &schemaErr), errors.As(err, &graphErr):
		return http.StatusBadRequest

	case errors.Is(err, file.ErrInvalidResponse),
		errors.Is(err, extractor.ErrNoInput),
		errors.Is(err, extractor.ErrUnsupported):
		return http.StatusBadRequest

	case errors.As(err, &ioErr):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err)

	if code >= 500 {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeError(w, code, err)
}
