package block

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("block not found")
)

// SchemaError reports structurally invalid input. It aborts the whole build.
type SchemaError struct {
	Index  int
	ID     string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid block %q at index %d: %s", e.ID, e.Index, e.Reason)
	}

	return fmt.Sprintf("invalid block at index %d: %s", e.Index, e.Reason)
}

// GraphError reports a cycle between CHILD relationships.
type GraphError struct {
	Cycle []string
}

func (e *GraphError) Error() string {
	return "cyclic child relationship: " + strings.Join(e.Cycle, " -> ")
}

type WarningCode string

const (
	WarningDanglingReference WarningCode = "dangling_reference"
	WarningMissingCellIndex  WarningCode = "missing_cell_index"
	WarningDuplicateCell     WarningCode = "duplicate_cell"
	WarningMultipleValues    WarningCode = "multiple_values"
	WarningUnexpectedType    WarningCode = "unexpected_type"
	WarningInvalidGeometry   WarningCode = "invalid_geometry"
)

// Warning is a local, recoverable defect. The affected entity is still built.
type Warning struct {
	Code WarningCode `json:"code"`

	BlockID  string `json:"block_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	Message string `json:"message"`
}

func (w Warning) Error() string {
	var sb strings.Builder

	sb.WriteString(string(w.Code))

	if w.BlockID != "" {
		sb.WriteString(" (block " + w.BlockID)

		if w.TargetID != "" {
			sb.WriteString(" -> " + w.TargetID)
		}

		sb.WriteString(")")
	}

	if w.Message != "" {
		sb.WriteString(": " + w.Message)
	}

	return sb.String()
}
