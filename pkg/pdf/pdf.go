package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrInvalid = errors.New("invalid pdf")
)

// PageCount parses and validates data as a PDF and returns its number of pages.
func PageCount(data []byte) (int, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return 0, ErrInvalid
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)

	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return ctx.PageCount, nil
}
