package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/extractor"
	"github.com/adrianliechti/docgraph/pkg/geometry"
	"github.com/adrianliechti/docgraph/pkg/provider"

	"github.com/tidwall/gjson"
)

var _ extractor.Provider = (*Client)(nil)

var (
	ErrInvalidResponse = errors.New("invalid analysis response")
)

// Client reads saved analysis responses instead of calling the service. Input
// is either a response file or a local path (optionally file://) in URL.
type Client struct{}

func New() (*Client, error) {
	return &Client{}, nil
}

func (c *Client) Extract(ctx context.Context, input extractor.Input, options *extractor.ExtractOptions) (*extractor.Result, error) {
	var data []byte

	switch {
	case input.File != nil:
		data = input.File.Content

	case input.URL != "":
		path := strings.TrimPrefix(input.URL, "file://")

		content, err := os.ReadFile(path)

		if err != nil {
			return nil, provider.Wrap("file: read response", err)
		}

		data = content

	default:
		return nil, extractor.ErrNoInput
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := Parse(data)

	if err != nil {
		return nil, provider.Wrap("file: parse response", err)
	}

	return result, nil
}

// Parse decodes a saved response: a single response object, or an array of
// paginated responses whose blocks are concatenated in order.
func Parse(data []byte) (*extractor.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidResponse
	}

	root := gjson.ParseBytes(data)

	var responses []gjson.Result

	switch {
	case root.IsArray():
		responses = root.Array()

	case root.IsObject():
		responses = []gjson.Result{root}

	default:
		return nil, ErrInvalidResponse
	}

	result := &extractor.Result{
		Blocks: []block.Block{},
	}

	for _, r := range responses {
		blocks := r.Get("Blocks")

		if !blocks.IsArray() {
			return nil, errors.Join(ErrInvalidResponse, errors.New("missing Blocks"))
		}

		if pages := int(r.Get("DocumentMetadata.Pages").Int()); pages > result.Pages {
			result.Pages = pages
		}

		var items []responseBlock

		if err := json.Unmarshal([]byte(blocks.Raw), &items); err != nil {
			return nil, errors.Join(ErrInvalidResponse, err)
		}

		for _, b := range items {
			result.Blocks = append(result.Blocks, b.toBlock())
		}
	}

	return result, nil
}

type responseBlock struct {
	ID        string `json:"Id"`
	BlockType string `json:"BlockType"`

	Text       string   `json:"Text"`
	Confidence *float64 `json:"Confidence"`
	Page       int      `json:"Page"`

	Geometry *responseGeometry `json:"Geometry"`

	Relationships []struct {
		Type string   `json:"Type"`
		IDs  []string `json:"Ids"`
	} `json:"Relationships"`

	RowIndex    *int `json:"RowIndex"`
	ColumnIndex *int `json:"ColumnIndex"`

	EntityTypes     []string `json:"EntityTypes"`
	SelectionStatus string   `json:"SelectionStatus"`
}

type responseGeometry struct {
	BoundingBox *struct {
		Width  float64 `json:"Width"`
		Height float64 `json:"Height"`
		Left   float64 `json:"Left"`
		Top    float64 `json:"Top"`
	} `json:"BoundingBox"`

	Polygon []struct {
		X float64 `json:"X"`
		Y float64 `json:"Y"`
	} `json:"Polygon"`
}

func (b *responseBlock) toBlock() block.Block {
	result := block.Block{
		ID:   b.ID,
		Type: block.Type(b.BlockType),

		Text:       b.Text,
		Confidence: b.Confidence,
		Page:       b.Page,

		RowIndex:    toIndex(b.RowIndex),
		ColumnIndex: toIndex(b.ColumnIndex),

		SelectionStatus: block.SelectionStatus(b.SelectionStatus),
	}

	if g := b.Geometry; g != nil {
		result.Geometry = &geometry.Geometry{
			Polygon: make([]geometry.Point, 0, len(g.Polygon)),
		}

		if box := g.BoundingBox; box != nil {
			result.Geometry.BoundingBox = geometry.BoundingBox{
				Width:  box.Width,
				Height: box.Height,
				Left:   box.Left,
				Top:    box.Top,
			}
		}

		for _, p := range g.Polygon {
			result.Geometry.Polygon = append(result.Geometry.Polygon, geometry.Point{X: p.X, Y: p.Y})
		}
	}

	for _, r := range b.Relationships {
		result.Relationships = append(result.Relationships, block.Relationship{
			Kind: block.RelationshipKind(r.Type),
			IDs:  r.IDs,
		})
	}

	for _, e := range b.EntityTypes {
		result.EntityTypes = append(result.EntityTypes, block.EntityType(e))
	}

	return result
}

// toIndex converts the service's 1-based table index to a 0-based one.
func toIndex(v *int) *int {
	if v == nil || *v < 1 {
		return nil
	}

	i := *v - 1
	return &i
}
