package textract

import (
	"strconv"

	"github.com/adrianliechti/docgraph/pkg/block"
	"github.com/adrianliechti/docgraph/pkg/geometry"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

func toBlocks(blocks []types.Block) []block.Block {
	result := make([]block.Block, 0, len(blocks))

	for _, b := range blocks {
		result = append(result, toBlock(b))
	}

	return result
}

func toBlock(b types.Block) block.Block {
	result := block.Block{
		ID:   aws.ToString(b.Id),
		Type: block.Type(b.BlockType),

		Text: aws.ToString(b.Text),
		Page: int(aws.ToInt32(b.Page)),

		Geometry: toGeometry(b.Geometry),

		RowIndex:    toIndex(b.RowIndex),
		ColumnIndex: toIndex(b.ColumnIndex),

		SelectionStatus: block.SelectionStatus(b.SelectionStatus),
	}

	if b.Confidence != nil {
		confidence := widen(*b.Confidence)
		result.Confidence = &confidence
	}

	for _, r := range b.Relationships {
		result.Relationships = append(result.Relationships, block.Relationship{
			Kind: block.RelationshipKind(r.Type),
			IDs:  r.Ids,
		})
	}

	for _, e := range b.EntityTypes {
		result.EntityTypes = append(result.EntityTypes, block.EntityType(e))
	}

	return result
}

func toGeometry(g *types.Geometry) *geometry.Geometry {
	if g == nil {
		return nil
	}

	result := &geometry.Geometry{
		Polygon: make([]geometry.Point, 0, len(g.Polygon)),
	}

	if box := g.BoundingBox; box != nil {
		result.BoundingBox = geometry.BoundingBox{
			Width:  widen(box.Width),
			Height: widen(box.Height),
			Left:   widen(box.Left),
			Top:    widen(box.Top),
		}
	}

	for _, p := range g.Polygon {
		result.Polygon = append(result.Polygon, geometry.Point{
			X: widen(p.X),
			Y: widen(p.Y),
		})
	}

	return result
}

// toIndex converts the service's 1-based table index to a 0-based one.
func toIndex(v *int32) *int {
	if v == nil || *v < 1 {
		return nil
	}

	i := int(*v) - 1
	return &i
}

// widen converts a float32 to the float64 with the same shortest decimal
// representation, so 0.1 stays 0.1 instead of 0.10000000149011612.
func widen(v float32) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)

	if err != nil {
		return float64(v)
	}

	return f
}
