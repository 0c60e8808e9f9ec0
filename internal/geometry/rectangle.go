package geometry

import (
	"fmt"
	"math"
)

// Rectangle is an axis-aligned rectangle anchored at its top-left corner.
type Rectangle struct {
	Location Point `json:"location" yaml:"location"`
	Size     Size  `json:"size" yaml:"size"`
}

// Rect is a shorthand for a rectangle at (x, y) with size w x h.
func Rect(x, y, w, h float64) Rectangle {
	return Rectangle{Location: Point{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// Canon returns r with a non-negative size covering the same area. A
// mirrored rectangle (negative width or height) has its location moved to
// the true top-left corner.
func (r Rectangle) Canon() Rectangle {
	if !r.Size.IsKnown() {
		return r
	}
	if r.Size.Width < 0 {
		r.Location.X += r.Size.Width
	}
	if r.Size.Height < 0 {
		r.Location.Y += r.Size.Height
	}
	r.Size = r.Size.Abs()
	return r
}

// Min returns the top-left corner.
func (r Rectangle) Min() Point {
	return r.Location
}

// Max returns the bottom-right corner.
func (r Rectangle) Max() Point {
	return Point{X: r.Location.X + r.Size.Width, Y: r.Location.Y + r.Size.Height}
}

// Center returns the midpoint of the rectangle.
func (r Rectangle) Center() Point {
	return Point{X: r.Location.X + r.Size.Width/2, Y: r.Location.Y + r.Size.Height/2}
}

// Area returns the rectangle's area. Rectangles with an invalid size have
// area 0.
func (r Rectangle) Area() float64 {
	return r.Size.Area()
}

// Contains reports whether p lies inside r. Edges are inclusive.
func (r Rectangle) Contains(p Point) bool {
	r = r.Canon()
	if !r.Size.IsValid() {
		return false
	}
	maxP := r.Max()
	return p.X >= r.Location.X && p.X <= maxP.X &&
		p.Y >= r.Location.Y && p.Y <= maxP.Y
}

// Intersects reports whether the closed rectangles r and o share at least
// one point. Rectangles that only touch along an edge or corner intersect.
func (r Rectangle) Intersects(o Rectangle) bool {
	r, o = r.Canon(), o.Canon()
	if !r.Size.IsValid() || !o.Size.IsValid() {
		return false
	}
	rMax, oMax := r.Max(), o.Max()
	return r.Location.X <= oMax.X && o.Location.X <= rMax.X &&
		r.Location.Y <= oMax.Y && o.Location.Y <= rMax.Y
}

// Intersect returns the intersection of r and o. The boolean is false when
// the rectangles do not intersect (see Intersects); the returned rectangle
// may have zero width or height when they only touch.
func (r Rectangle) Intersect(o Rectangle) (Rectangle, bool) {
	if !r.Intersects(o) {
		return Rectangle{}, false
	}
	r, o = r.Canon(), o.Canon()
	rMax, oMax := r.Max(), o.Max()
	x0 := math.Max(r.Location.X, o.Location.X)
	y0 := math.Max(r.Location.Y, o.Location.Y)
	x1 := math.Min(rMax.X, oMax.X)
	y1 := math.Min(rMax.Y, oMax.Y)
	return Rect(x0, y0, x1-x0, y1-y0), true
}

// IntersectArea returns the area shared by r and o.
func (r Rectangle) IntersectArea(o Rectangle) float64 {
	in, ok := r.Intersect(o)
	if !ok {
		return 0
	}
	return in.Area()
}

// OverlapRatio returns the fraction of r's area that falls on o, in [0, 1].
// A zero-area receiver yields 0.
func (r Rectangle) OverlapRatio(o Rectangle) float64 {
	area := r.Area()
	if area <= 0 {
		return 0
	}
	return r.IntersectArea(o) / area
}

// Union returns the smallest rectangle containing both r and o. A rectangle
// with an invalid size is ignored.
func (r Rectangle) Union(o Rectangle) Rectangle {
	r, o = r.Canon(), o.Canon()
	if !r.Size.IsValid() {
		return o
	}
	if !o.Size.IsValid() {
		return r
	}
	rMax, oMax := r.Max(), o.Max()
	x0 := math.Min(r.Location.X, o.Location.X)
	y0 := math.Min(r.Location.Y, o.Location.Y)
	x1 := math.Max(rMax.X, oMax.X)
	y1 := math.Max(rMax.Y, oMax.Y)
	return Rect(x0, y0, x1-x0, y1-y0)
}

// Rotate rotates the four corners of r about its center by rot and returns
// the axis-aligned bounding box of the result, which always has a
// non-negative size.
func (r Rectangle) Rotate(rot Rotation) Rectangle {
	r = r.Canon()
	if rot.Degrees == 0 || !r.Size.IsValid() {
		return r
	}

	sin, cos := math.Sincos(rot.Radians())
	c := r.Center()
	maxP := r.Max()
	corners := [4]Point{
		r.Location,
		{X: maxP.X, Y: r.Location.Y},
		maxP,
		{X: r.Location.X, Y: maxP.Y},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		dx, dy := p.X-c.X, p.Y-c.Y
		x := c.X + dx*cos - dy*sin
		y := c.Y + dx*sin + dy*cos
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect(minX, minY, maxX-minX, maxY-minY)
}

// Equal reports value equality of location and size.
func (r Rectangle) Equal(o Rectangle) bool {
	return r.Location == o.Location && r.Size.Equal(o.Size)
}

// String implements fmt.Stringer.
func (r Rectangle) String() string {
	return fmt.Sprintf("%s %s", r.Location, r.Size)
}
