package led

import (
	"fmt"
	"image/color"
	"net/url"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
)

// Led is a single addressable light element owned by one device.
//
// T is the per-device custom data attached when the LED is created, for
// example the vendor's own index of the element. It is opaque to this
// package.
//
// A Led keeps two colours: the requested colour set by callers and the
// applied colour captured the last time the LED was finalized for an update.
// The zero colour (alpha 0) means "unset".
type Led[T any] struct {
	id        ID
	rect      geometry.Rectangle
	shape     Shape
	shapeData string
	image     *url.URL
	requested color.NRGBA
	applied   color.NRGBA
	dirty     bool
	data      T
}

// Snapshot is the immutable view of a LED handed to an update sink.
type Snapshot[T any] struct {
	ID    ID
	Color color.NRGBA
	Data  T
}

// ID returns the LED's identifier.
func (l *Led[T]) ID() ID { return l.id }

// Rectangle returns the LED's device-local rectangle.
func (l *Led[T]) Rectangle() geometry.Rectangle { return l.rect }

// Shape returns the LED's outline kind.
func (l *Led[T]) Shape() Shape { return l.shape }

// ShapeData returns shape-specific data (SVG path data for ShapeCustom).
func (l *Led[T]) ShapeData() string { return l.shapeData }

// Image returns the optional image URI, or nil.
func (l *Led[T]) Image() *url.URL { return l.image }

// Data returns the custom data attached at creation.
func (l *Led[T]) Data() T { return l.data }

// Color returns the requested colour.
func (l *Led[T]) Color() color.NRGBA { return l.requested }

// Applied returns the colour captured by the last Finalize.
func (l *Led[T]) Applied() color.NRGBA { return l.applied }

// IsDirty reports whether the requested colour changed since the last
// Finalize.
func (l *Led[T]) IsDirty() bool { return l.dirty }

// SetColor requests a new colour. The LED becomes dirty only when the colour
// actually changes.
func (l *Led[T]) SetColor(c color.NRGBA) {
	if c == l.requested {
		return
	}
	l.requested = c
	l.dirty = true
}

// SetRectangle replaces the LED's device-local rectangle.
func (l *Led[T]) SetRectangle(r geometry.Rectangle) { l.rect = r }

// SetShape replaces the outline kind and its data.
func (l *Led[T]) SetShape(shape Shape, data string) {
	l.shape = shape
	l.shapeData = data
}

// SetImage replaces the image URI. A nil URI clears it.
func (l *Led[T]) SetImage(u *url.URL) { l.image = u }

// Finalize clears the dirty flag, records the requested colour as applied
// and returns a snapshot for the update sink.
func (l *Led[T]) Finalize() Snapshot[T] {
	l.dirty = false
	l.applied = l.requested
	return Snapshot[T]{ID: l.id, Color: l.applied, Data: l.data}
}

// String implements fmt.Stringer.
func (l *Led[T]) String() string {
	return fmt.Sprintf("%s %s", l.id, l.rect)
}

// View is a JSON-friendly copy of a LED without its custom data.
type View struct {
	ID        string             `json:"id"`
	Rectangle geometry.Rectangle `json:"rectangle"`
	Shape     Shape              `json:"shape"`
	ShapeData string             `json:"shape_data,omitempty"`
	Image     string             `json:"image,omitempty"`
	Color     string             `json:"color"`
	Applied   string             `json:"applied"`
	Dirty     bool               `json:"dirty"`
}

// View returns a copy of the LED's public state.
func (l *Led[T]) View() View {
	v := View{
		ID:        l.id.String(),
		Rectangle: l.rect,
		Shape:     l.shape,
		ShapeData: l.shapeData,
		Color:     FormatColor(l.requested),
		Applied:   FormatColor(l.applied),
		Dirty:     l.dirty,
	}
	if l.image != nil {
		v.Image = l.image.String()
	}
	return v
}
