package block

import (
	"slices"

	"github.com/adrianliechti/docgraph/pkg/geometry"
)

type Type string

const (
	TypePage             Type = "PAGE"
	TypeLine             Type = "LINE"
	TypeWord             Type = "WORD"
	TypeTable            Type = "TABLE"
	TypeCell             Type = "CELL"
	TypeMergedCell       Type = "MERGED_CELL"
	TypeTableTitle       Type = "TABLE_TITLE"
	TypeTableFooter      Type = "TABLE_FOOTER"
	TypeKeyValueSet      Type = "KEY_VALUE_SET"
	TypeSelectionElement Type = "SELECTION_ELEMENT"
)

type RelationshipKind string

const (
	RelationshipChild RelationshipKind = "CHILD"
	RelationshipValue RelationshipKind = "VALUE"
)

type EntityType string

const (
	EntityKey   EntityType = "KEY"
	EntityValue EntityType = "VALUE"
)

type SelectionStatus string

const (
	SelectionSelected    SelectionStatus = "SELECTED"
	SelectionNotSelected SelectionStatus = "NOT_SELECTED"
)

type Block struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`

	Text       string   `json:"text,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	// Page is the upstream page attribute, 0 if the service did not report one.
	Page int `json:"page,omitempty"`

	Geometry *geometry.Geometry `json:"geometry,omitempty"`

	Relationships []Relationship `json:"relationships,omitempty"`

	// 0-based
	RowIndex    *int `json:"row_index,omitempty"`
	ColumnIndex *int `json:"column_index,omitempty"`

	EntityTypes     []EntityType    `json:"entity_types,omitempty"`
	SelectionStatus SelectionStatus `json:"selection_status,omitempty"`
}

type Relationship struct {
	Kind RelationshipKind `json:"kind"`
	IDs  []string         `json:"ids"`
}

func (b *Block) Is(entity EntityType) bool {
	return slices.Contains(b.EntityTypes, entity)
}

// Targets returns the ids referenced by all relationships of the given kind, in
// declaration order.
func (b *Block) Targets(kind RelationshipKind) []string {
	var ids []string

	for _, r := range b.Relationships {
		if r.Kind != kind {
			continue
		}

		ids = append(ids, r.IDs...)
	}

	return ids
}
