package document

import (
	"github.com/adrianliechti/docgraph/pkg/geometry"
)

type Document struct {
	Pages []Page
}

type Page struct {
	Number int

	Lines  []Line
	Tables []Table
	Forms  []FormField
}

type Line struct {
	Text     string
	Geometry *geometry.Geometry

	Words []Word
}

type Word struct {
	Text     string
	Geometry *geometry.Geometry
}

type Table struct {
	Number int

	Rows []Row
}

type Row []Cell

type Cell struct {
	Text     string
	Geometry *geometry.Geometry

	RowIndex    int
	ColumnIndex int
}

type FormField struct {
	Key   Field
	Value *Field
}

type Field struct {
	Text     string
	Geometry *geometry.Geometry
}
