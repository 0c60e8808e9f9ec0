package layout

import (
	"errors"
	"fmt"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
)

// shapeTolerance absorbs the 1/64 rounding of 26.6 fixed-point coordinates.
const shapeTolerance = 1.0 / 32

// ValidateShapeData checks custom-shape path data. The path must parse as
// SVG path data and its control polygon must lie within the unit square,
// since custom shapes are scaled to the LED rectangle.
func ValidateShapeData(data string) error {
	if data == "" {
		return errors.New("custom shape requires shape_data")
	}
	b, err := PathBounds(data)
	if err != nil {
		return err
	}
	minP, maxP := b.Min(), b.Max()
	if minP.X < -shapeTolerance || minP.Y < -shapeTolerance ||
		maxP.X > 1+shapeTolerance || maxP.Y > 1+shapeTolerance {
		return fmt.Errorf("shape_data bounds %s exceed the unit square", b)
	}
	return nil
}

// PathBounds parses SVG path data and returns the bounding box of every
// point on its control polygon.
func PathBounds(data string) (geometry.Rectangle, error) {
	var cursor oksvg.PathCursor
	cursor.ErrorMode = oksvg.StrictErrorMode
	if err := cursor.CompilePath(data); err != nil {
		return geometry.Rectangle{}, fmt.Errorf("invalid shape_data: %w", err)
	}

	var b boundsAdder
	cursor.Path.AddTo(&b)
	if b.points == 0 {
		return geometry.Rectangle{}, errors.New("invalid shape_data: empty path")
	}
	return geometry.Rect(toFloat(b.min.X), toFloat(b.min.Y),
		toFloat(b.max.X-b.min.X), toFloat(b.max.Y-b.min.Y)), nil
}

// boundsAdder is a rasterx.Adder that records the extent of the points it
// is fed.
type boundsAdder struct {
	min, max fixed.Point26_6
	points   int
}

var _ rasterx.Adder = (*boundsAdder)(nil)

func (b *boundsAdder) add(p fixed.Point26_6) {
	if b.points == 0 {
		b.min, b.max = p, p
	} else {
		b.min.X, b.min.Y = min(b.min.X, p.X), min(b.min.Y, p.Y)
		b.max.X, b.max.Y = max(b.max.X, p.X), max(b.max.Y, p.Y)
	}
	b.points++
}

func (b *boundsAdder) Start(a fixed.Point26_6) { b.add(a) }
func (b *boundsAdder) Line(p fixed.Point26_6)  { b.add(p) }
func (b *boundsAdder) Stop(bool)               {}

func (b *boundsAdder) QuadBezier(p, q fixed.Point26_6) {
	b.add(p)
	b.add(q)
}

func (b *boundsAdder) CubeBezier(p, q, r fixed.Point26_6) {
	b.add(p)
	b.add(q)
	b.add(r)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
