package device

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/layout"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Builder is the construction-time surface of a Device. It is handed to
// the setup function of New and carries the operations that only the
// concrete device and its placement code may perform.
type Builder[T any] struct {
	d *Device[T]
}

func (b *Builder[T]) device() *Device[T] {
	if b.d == nil {
		panic("device: builder used after setup returned")
	}
	return b.d
}

// Info returns the device metadata as configured so far.
func (b *Builder[T]) Info() Info {
	return b.device().info
}

// SetLogicalSize sets the unscaled device size and recomputes the derived
// geometry.
func (b *Builder[T]) SetLogicalSize(s geometry.Size) {
	b.device().setLogicalSize(s)
}

// LogicalSize returns the current unscaled size.
func (b *Builder[T]) LogicalSize() geometry.Size {
	return b.device().logicalSize
}

// SetImage sets the device's display image.
func (b *Builder[T]) SetImage(u *url.URL) {
	b.device().info.Image = u
}

// AddLed creates a rectangular LED with custom data from the CustomData
// hook. It returns led.ErrInvalidID or led.ErrDuplicateID without touching
// the registry when the id cannot be used.
func (b *Builder[T]) AddLed(id led.ID, rect geometry.Rectangle) (*led.Led[T], error) {
	d := b.device()
	return d.leds.Insert(id, rect, led.ShapeRectangle, "", d.customData(id))
}

// AddLedWithData creates a rectangular LED carrying data.
func (b *Builder[T]) AddLedWithData(id led.ID, rect geometry.Rectangle, data T) (*led.Led[T], error) {
	return b.device().leds.Insert(id, rect, led.ShapeRectangle, "", data)
}

// Led returns an already created LED.
func (b *Builder[T]) Led(id led.ID) (*led.Led[T], bool) {
	return b.device().leds.Get(id)
}

// Len returns the number of LEDs created so far.
func (b *Builder[T]) Len() int {
	return b.device().leds.Len()
}

// ApplyLayoutFrom looks up the device's layout in src by manufacturer and
// model and applies it. See ApplyLayout.
func (b *Builder[T]) ApplyLayoutFrom(ctx context.Context, src layout.Source, imageLayout string, createMissing bool) (*layout.Layout, error) {
	info := b.device().info
	l, err := src.Lookup(ctx, info.Manufacturer, info.Model)
	if err != nil {
		return nil, fmt.Errorf("looking up layout: %w", err)
	}
	if err := b.ApplyLayout(l, imageLayout, createMissing); err != nil {
		return nil, err
	}
	return l, nil
}

// ApplyLayoutFile loads the layout file at path and applies it. The parsed
// layout is returned so callers can inspect its metadata.
func (b *Builder[T]) ApplyLayoutFile(path, imageLayout string, createMissing bool) (*layout.Layout, error) {
	l, err := layout.Load(path)
	if err != nil {
		return nil, err
	}
	if err := b.ApplyLayout(l, imageLayout, createMissing); err != nil {
		return nil, err
	}
	return l, nil
}
