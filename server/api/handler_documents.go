package api

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/adrianliechti/docgraph/pkg/document"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/extractor/file"
	"github.com/adrianliechti/docgraph/pkg/geometry"
	"github.com/adrianliechti/docgraph/pkg/pipeline"
	"github.com/adrianliechti/docgraph/pkg/provider"

	"github.com/google/uuid"
)

func (h *Handler) handleDocuments(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, uploadStatus(err), err)
		return
	}

	f, header, err := r.FormFile("file")

	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing file"))
		return
	}

	defer f.Close()

	data, err := io.ReadAll(f)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	e, err := h.Extractor(r.FormValue("extractor"))

	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	options := []pipeline.Option{
		pipeline.WithBuilder(h.Builder(h.logger)),
		pipeline.WithLogger(h.logger),
	}

	name := r.FormValue("name")

	if id := r.FormValue("storage"); id != "" {
		s, err := h.Storage(id)

		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}

		options = append(options, pipeline.WithStorage(s))

		if name == "" {
			name = outputName(header.Filename)
		}
	}

	input := extractor.Input{
		File: &provider.File{
			Name:        header.Filename,
			Content:     data,
			ContentType: header.Header.Get("Content-Type"),
		},
	}

	result, err := pipeline.New(e, options...).Process(r.Context(), input, &pipeline.Options{
		Features: parseFeatures(r.FormValue("features")),
		Name:     name,
	})

	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJson(w, DocumentResponse{
		Document:    result.Tree,
		Diagnostics: toDiagnostics(result.Diagnostics),
	})
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUploadSize))

	if err != nil {
		writeError(w, uploadStatus(err), err)
		return
	}

	scale := h.Scale

	if value := r.URL.Query().Get("scale"); value != "" {
		s, err := strconv.ParseFloat(value, 64)

		if err != nil || s <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("invalid scale: "+value))
			return
		}

		scale = geometry.Scale{X: s, Y: s}
	}

	extracted, err := file.Parse(data)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	builder := document.NewBuilder(
		document.WithScale(scale),
		document.WithWorkers(h.Workers),
		document.WithLogger(h.logger),
	)

	result, err := pipeline.New(nil, pipeline.WithBuilder(builder), pipeline.WithLogger(h.logger)).Parse(r.Context(), extracted.Blocks)

	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJson(w, DocumentResponse{
		Document:    result.Tree,
		Diagnostics: toDiagnostics(result.Diagnostics),
	})
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError

	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

func parseFeatures(value string) []extractor.Feature {
	var result []extractor.Feature

	for _, f := range strings.Split(value, ",") {
		f = strings.ToUpper(strings.TrimSpace(f))

		if f == "" {
			continue
		}

		result = append(result, extractor.Feature(f))
	}

	return result
}

// outputName derives the stored object name from the uploaded file name,
// falling back to a random one.
func outputName(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	if base == "" || base == "." || base == "/" {
		base = uuid.NewString()
	}

	return base + "_structured.json"
}
