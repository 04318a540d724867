package document

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/adrianliechti/docgraph/pkg/geometry"
)

// Tree is the canonical, JSON-compatible form of a Document. Field order is
// fixed by the struct layout.
type Tree struct {
	Pages []PageRecord `json:"pages"`
}

type PageRecord struct {
	PageNumber int           `json:"page_number"`
	Content    ContentRecord `json:"content"`
}

type ContentRecord struct {
	Lines  []LineRecord  `json:"lines"`
	Tables []TableRecord `json:"tables"`
	Forms  []FormRecord  `json:"forms"`
}

type LineRecord struct {
	Text     string             `json:"text"`
	Geometry *geometry.Geometry `json:"geometry"`

	Words []WordRecord `json:"words"`
}

type WordRecord struct {
	Text     string             `json:"text"`
	Geometry *geometry.Geometry `json:"geometry"`
}

type TableRecord struct {
	TableNumber int            `json:"table_number"`
	Rows        [][]CellRecord `json:"rows"`
}

type CellRecord struct {
	Text     string             `json:"text"`
	Geometry *geometry.Geometry `json:"geometry"`

	RowIndex    int `json:"row_index"`
	ColumnIndex int `json:"column_index"`
}

type FormRecord struct {
	Key   FieldRecord  `json:"key"`
	Value *FieldRecord `json:"value,omitempty"`
}

type FieldRecord struct {
	Text     string             `json:"text"`
	Geometry *geometry.Geometry `json:"geometry"`
}

func Serialize(doc *Document) *Tree {
	tree := &Tree{
		Pages: []PageRecord{},
	}

	if doc == nil {
		return tree
	}

	for _, p := range doc.Pages {
		tree.Pages = append(tree.Pages, PageRecord{
			PageNumber: p.Number,
			Content:    serializeContent(p),
		})
	}

	return tree
}

func serializeContent(p Page) ContentRecord {
	content := ContentRecord{
		Lines:  make([]LineRecord, 0, len(p.Lines)),
		Tables: make([]TableRecord, 0, len(p.Tables)),
		Forms:  make([]FormRecord, 0, len(p.Forms)),
	}

	for _, l := range p.Lines {
		line := LineRecord{
			Text:     l.Text,
			Geometry: l.Geometry,

			Words: make([]WordRecord, 0, len(l.Words)),
		}

		for _, w := range l.Words {
			line.Words = append(line.Words, WordRecord{
				Text:     w.Text,
				Geometry: w.Geometry,
			})
		}

		content.Lines = append(content.Lines, line)
	}

	for _, t := range p.Tables {
		table := TableRecord{
			TableNumber: t.Number,
			Rows:        make([][]CellRecord, 0, len(t.Rows)),
		}

		for _, r := range t.Rows {
			row := make([]CellRecord, 0, len(r))

			for _, c := range r {
				row = append(row, CellRecord{
					Text:     c.Text,
					Geometry: c.Geometry,

					RowIndex:    c.RowIndex,
					ColumnIndex: c.ColumnIndex,
				})
			}

			table.Rows = append(table.Rows, row)
		}

		content.Tables = append(content.Tables, table)
	}

	for _, f := range p.Forms {
		form := FormRecord{
			Key: FieldRecord{
				Text:     f.Key.Text,
				Geometry: f.Key.Geometry,
			},
		}

		if f.Value != nil {
			form.Value = &FieldRecord{
				Text:     f.Value.Text,
				Geometry: f.Value.Geometry,
			}
		}

		content.Forms = append(content.Forms, form)
	}

	return content
}

func Encode(w io.Writer, tree *Tree) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	return enc.Encode(tree)
}

func Marshal(tree *Tree) ([]byte, error) {
	var buf bytes.Buffer

	if err := Encode(&buf, tree); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
