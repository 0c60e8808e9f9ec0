package device

import (
	"context"
	"image/color"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Controller is the type-erased view of a Device used by code that manages
// devices with different custom data, such as the host and the API.
type Controller interface {
	State() State
	SetLocation(p geometry.Point)
	SetScale(s geometry.Scale)
	SetRotation(r geometry.Rotation)

	Views() []led.View
	View(id led.ID) (led.View, bool)
	ViewAt(p geometry.Point) (led.View, bool)
	ViewsOverlapping(probe geometry.Rectangle, minOverlap float64) []led.View

	SetColor(id led.ID, c color.NRGBA) error
	Fill(c color.NRGBA)

	Update(ctx context.Context, flush bool) (int, error)
	Dispose()
}

var _ Controller = (*Device[struct{}])(nil)

// State is a snapshot of a device's metadata and geometry.
type State struct {
	Name              string             `json:"name"`
	Info              Info               `json:"info"`
	Image             string             `json:"image,omitempty"`
	Location          geometry.Point     `json:"location"`
	LogicalSize       geometry.Size      `json:"logical_size"`
	Scale             geometry.Scale     `json:"scale"`
	Rotation          geometry.Rotation  `json:"rotation"`
	ActualSize        geometry.Size      `json:"actual_size"`
	Rectangle         geometry.Rectangle `json:"rectangle"`
	RequiresFullFlush bool               `json:"requires_full_flush"`
	LedCount          int                `json:"led_count"`
	Disposed          bool               `json:"disposed"`
}

// State implements Controller.
func (d *Device[T]) State() State {
	s := State{
		Name:              d.info.Name(),
		Info:              d.info,
		Location:          d.location,
		LogicalSize:       d.logicalSize,
		Scale:             d.scale,
		Rotation:          d.rotation,
		ActualSize:        d.actualSize,
		Rectangle:         d.rect,
		RequiresFullFlush: d.requiresFullFlush,
		LedCount:          d.leds.Len(),
		Disposed:          d.Disposed(),
	}
	if d.info.Image != nil {
		s.Image = d.info.Image.String()
	}
	return s
}

// Views implements Controller.
func (d *Device[T]) Views() []led.View {
	views := make([]led.View, 0, d.leds.Len())
	for l := range d.leds.All() {
		views = append(views, l.View())
	}
	return views
}

// View implements Controller.
func (d *Device[T]) View(id led.ID) (led.View, bool) {
	l, ok := d.leds.Get(id)
	if !ok {
		return led.View{}, false
	}
	return l.View(), true
}

// ViewAt implements Controller.
func (d *Device[T]) ViewAt(p geometry.Point) (led.View, bool) {
	l, ok := d.LedAt(p)
	if !ok {
		return led.View{}, false
	}
	return l.View(), true
}

// ViewsOverlapping implements Controller.
func (d *Device[T]) ViewsOverlapping(probe geometry.Rectangle, minOverlap float64) []led.View {
	var views []led.View
	for l := range d.LedsOverlapping(probe, minOverlap) {
		views = append(views, l.View())
	}
	return views
}

// SetColor requests a colour for one LED.
func (d *Device[T]) SetColor(id led.ID, c color.NRGBA) error {
	l, ok := d.leds.Get(id)
	if !ok {
		return ErrLedNotFound
	}
	l.SetColor(c)
	return nil
}

// Fill requests the same colour for every LED.
func (d *Device[T]) Fill(c color.NRGBA) {
	for l := range d.leds.All() {
		l.SetColor(c)
	}
}
