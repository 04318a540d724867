package geometry

import (
	"errors"
	"fmt"
)

var (
	ErrPolygon     = errors.New("polygon has fewer than 3 points")
	ErrBoundingBox = errors.New("bounding box outside page")
)

type Geometry struct {
	BoundingBox BoundingBox `json:"bounding_box"`
	Polygon     []Point     `json:"polygon"`
}

type BoundingBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale is applied component-wise: X to left/width and point x, Y to top/height and point y.
type Scale struct {
	X float64
	Y float64
}

var Identity = Scale{X: 1, Y: 1}

func (s Scale) factors() (float64, float64) {
	x, y := s.X, s.Y

	if x == 0 {
		x = 1
	}

	if y == 0 {
		y = 1
	}

	return x, y
}

// Normalize returns a scaled copy of raw. A nil geometry stays nil and means the
// location is unknown.
func Normalize(raw *Geometry, scale Scale) *Geometry {
	if raw == nil {
		return nil
	}

	x, y := scale.factors()

	g := &Geometry{
		BoundingBox: BoundingBox{
			Width:  raw.BoundingBox.Width * x,
			Height: raw.BoundingBox.Height * y,
			Left:   raw.BoundingBox.Left * x,
			Top:    raw.BoundingBox.Top * y,
		},

		Polygon: make([]Point, 0, len(raw.Polygon)),
	}

	for _, p := range raw.Polygon {
		g.Polygon = append(g.Polygon, Point{
			X: p.X * x,
			Y: p.Y * y,
		})
	}

	return g
}

// Validate checks raw service geometry, which is expressed in page fractions.
func (g *Geometry) Validate() error {
	if g == nil {
		return nil
	}

	if len(g.Polygon) < 3 {
		return fmt.Errorf("%w: %d", ErrPolygon, len(g.Polygon))
	}

	box := g.BoundingBox

	for _, v := range []float64{box.Width, box.Height, box.Left, box.Top} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %v", ErrBoundingBox, box)
		}
	}

	return nil
}
