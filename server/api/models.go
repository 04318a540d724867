package api

import (
	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/document"
)

type DocumentResponse struct {
	Document *document.Tree `json:"document"`

	Diagnostics []Diagnostic `json:"diagnostics"`
}

type Diagnostic struct {
	Code block.WarningCode `json:"code"`

	BlockID  string `json:"block_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func toDiagnostics(warnings []block.Warning) []Diagnostic {
	result := make([]Diagnostic, 0, len(warnings))

	for _, w := range warnings {
		result = append(result, Diagnostic{
			Code: w.Code,

			BlockID:  w.BlockID,
			TargetID: w.TargetID,

			Message: w.Message,
		})
	}

	return result
}
