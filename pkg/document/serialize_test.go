package document

import (
	"encoding/json"
	"testing"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/geometry"

	"github.com/stretchr/testify/require"
)

func testBlocks() []block.Block {
	return []block.Block{
		{ID: "P1", Type: block.TypePage, Relationships: child("L1", "T1", "K1")},
		{ID: "L1", Type: block.TypeLine, Text: "Hello World", Geometry: box(0.1, 0.2), Relationships: child("W1", "W2")},
		{ID: "W1", Type: block.TypeWord, Text: "Hello", Geometry: box(0.1, 0.2)},
		{ID: "W2", Type: block.TypeWord, Text: "World"},
		{ID: "T1", Type: block.TypeTable, Relationships: child("C1")},
		{ID: "C1", Type: block.TypeCell, RowIndex: ptr(0), ColumnIndex: ptr(0), Text: "<cell>"},
		{ID: "K1", Type: block.TypeKeyValueSet, EntityTypes: []block.EntityType{block.EntityKey}, Text: "Name:"},
	}
}

func TestSerializeShape(t *testing.T) {
	doc, _ := build(t, testBlocks())

	data, err := Marshal(Serialize(doc))
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal(data, &tree))

	pages := tree["pages"].([]any)
	require.Len(t, pages, 1)

	page := pages[0].(map[string]any)
	require.EqualValues(t, 1, page["page_number"])

	content := page["content"].(map[string]any)

	line := content["lines"].([]any)[0].(map[string]any)
	require.Equal(t, "Hello World", line["text"])

	words := line["words"].([]any)
	require.Len(t, words, 2)
	require.Nil(t, words[1].(map[string]any)["geometry"])

	geom := line["geometry"].(map[string]any)
	bbox := geom["bounding_box"].(map[string]any)
	require.Equal(t, 0.1, bbox["left"])
	require.Len(t, geom["polygon"].([]any), 4)

	table := content["tables"].([]any)[0].(map[string]any)
	require.EqualValues(t, 1, table["table_number"])

	cell := table["rows"].([]any)[0].([]any)[0].(map[string]any)
	require.Equal(t, "<cell>", cell["text"])
	require.EqualValues(t, 0, cell["row_index"])
	require.EqualValues(t, 0, cell["column_index"])

	form := content["forms"].([]any)[0].(map[string]any)
	require.Contains(t, form, "key")
	require.NotContains(t, form, "value")
}

func TestSerializeEmptyCollections(t *testing.T) {
	doc, _ := build(t, []block.Block{
		{ID: "P1", Type: block.TypePage},
	})

	data, err := Marshal(Serialize(doc))
	require.NoError(t, err)

	require.JSONEq(t, `{
		"pages": [
			{
				"page_number": 1,
				"content": {"lines": [], "tables": [], "forms": []}
			}
		]
	}`, string(data))

	data, err = Marshal(Serialize(nil))
	require.NoError(t, err)
	require.JSONEq(t, `{"pages": []}`, string(data))
}

func TestSerializeKeyOrder(t *testing.T) {
	doc, _ := build(t, []block.Block{
		{ID: "P1", Type: block.TypePage, Relationships: child("L1")},
		{ID: "L1", Type: block.TypeLine, Text: "a", Geometry: &geometry.Geometry{
			BoundingBox: geometry.BoundingBox{Width: 0.1, Height: 0.02, Left: 0.5, Top: 0.25},
			Polygon: []geometry.Point{
				{X: 0.5, Y: 0.25},
				{X: 0.6, Y: 0.25},
				{X: 0.6, Y: 0.27},
				{X: 0.5, Y: 0.27},
			},
		}},
	})

	data, err := Marshal(Serialize(doc))
	require.NoError(t, err)

	expected := `{
    "pages": [
        {
            "page_number": 1,
            "content": {
                "lines": [
                    {
                        "text": "a",
                        "geometry": {
                            "bounding_box": {
                                "width": 0.1,
                                "height": 0.02,
                                "left": 0.5,
                                "top": 0.25
                            },
                            "polygon": [
                                {
                                    "x": 0.5,
                                    "y": 0.25
                                },
                                {
                                    "x": 0.6,
                                    "y": 0.25
                                },
                                {
                                    "x": 0.6,
                                    "y": 0.27
                                },
                                {
                                    "x": 0.5,
                                    "y": 0.27
                                }
                            ]
                        },
                        "words": []
                    }
                ],
                "tables": [],
                "forms": []
            }
        }
    ]
}
`

	require.Equal(t, expected, string(data))
}

func TestSerializeIdempotent(t *testing.T) {
	first, _ := build(t, testBlocks())
	second, _ := build(t, testBlocks(), WithWorkers(4))

	a, err := Marshal(Serialize(first))
	require.NoError(t, err)

	b, err := Marshal(Serialize(second))
	require.NoError(t, err)

	require.Equal(t, string(a), string(b))
}
