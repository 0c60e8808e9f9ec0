package openrgb

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

type zoneWrite struct {
	controller, zone int
	colors           []color.NRGBA
}

type fakeWriter struct {
	writes []zoneWrite
	err    error
}

func (w *fakeWriter) UpdateZoneLeds(_ context.Context, controller, zone int, colors []color.NRGBA) error {
	w.writes = append(w.writes, zoneWrite{controller, zone, colors})
	return w.err
}

type fakeConn struct{ closed int }

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

func testController() Controller {
	return Controller{
		Index:  3,
		Name:   "Apex",
		Vendor: "Example",
		Type:   device.TypeKeyboard,
		Leds: []Led{
			{Name: "Key: Escape"}, {Name: "Key: A"}, {Name: "Mystery"}, {Name: "Key: Escape"},
			{Name: "Logo"},
			{Name: "Strip 1"}, {Name: "Strip 2"},
		},
		Zones: []Zone{
			{Name: "Keys", Type: ZoneMatrix, LedsCount: 4, Matrix: [][]uint32{
				{0, 1},
				{2, device.NoElement, 3},
			}},
			{Name: "Empty", Type: ZoneLinear},
			{Name: "Logo", Type: ZoneSingle, LedsCount: 1},
			{Name: "Underglow", Type: ZoneLinear, LedsCount: 2},
		},
	}
}

func TestNewZoneDevices(t *testing.T) {
	conn := &fakeConn{}
	w := &fakeWriter{}
	devs, err := NewZoneDevices(testController(), Options{Writer: w, Conn: conn})
	if err != nil {
		t.Fatalf("NewZoneDevices: %v", err)
	}
	if len(devs) != 3 {
		t.Fatalf("got %d devices, want 3 (empty zone skipped)", len(devs))
	}

	keys := devs[0]
	if got := keys.Info().Model; got != "Apex Keys" {
		t.Errorf("Model = %q, want %q", got, "Apex Keys")
	}
	tests := []struct {
		id   led.ID
		data int
	}{
		{led.KeyboardEscape, 0},
		{led.KeyboardA, 1},
		{led.KeyboardCustom1, 2},
		// second "Key: Escape" collides and falls back to the next custom id
		{led.KeyboardCustom1 + 1, 3},
	}
	for _, tt := range tests {
		l, ok := keys.Led(tt.id)
		if !ok {
			t.Errorf("led %s missing", tt.id)
			continue
		}
		if l.Data() != tt.data {
			t.Errorf("led %s data = %d, want %d", tt.id, l.Data(), tt.data)
		}
	}

	logo, ok := devs[1].Led(led.Logo)
	if !ok || logo.Data() != 4 {
		t.Errorf("logo device: ok=%v", ok)
	}

	strip := devs[2]
	if strip.Len() != 2 {
		t.Fatalf("underglow leds = %d, want 2", strip.Len())
	}
	for l := range strip.Leds() {
		if l.Data() < 5 || l.Data() > 6 {
			t.Errorf("underglow led %s data = %d, want 5..6", l.ID(), l.Data())
		}
	}

	for _, d := range devs[:2] {
		d.Dispose()
	}
	if conn.closed != 0 {
		t.Fatalf("conn closed with a device still alive")
	}
	devs[2].Dispose()
	if conn.closed != 1 {
		t.Errorf("conn closed %d times, want 1", conn.closed)
	}
}

func TestZoneSinkWritesWholeZone(t *testing.T) {
	w := &fakeWriter{}
	devs, err := NewZoneDevices(testController(), Options{Writer: w})
	if err != nil {
		t.Fatalf("NewZoneDevices: %v", err)
	}
	strip := devs[2]

	red := color.NRGBA{R: 255, A: 255}
	for l := range strip.Leds() {
		if l.Data() == 6 {
			l.SetColor(red)
		}
	}
	if _, err := strip.Update(context.Background(), false); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(w.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(w.writes))
	}
	got := w.writes[0]
	if got.controller != 3 || got.zone != 3 {
		t.Errorf("wrote controller %d zone %d, want 3/3", got.controller, got.zone)
	}
	want := []color.NRGBA{{}, red}
	if len(got.colors) != len(want) || got.colors[0] != want[0] || got.colors[1] != want[1] {
		t.Errorf("colors = %v, want %v", got.colors, want)
	}

	// Nothing dirty: no write.
	if _, err := strip.Update(context.Background(), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(w.writes) != 1 {
		t.Errorf("writes = %d after clean update, want 1", len(w.writes))
	}
}

func TestZoneSinkError(t *testing.T) {
	w := &fakeWriter{err: errors.New("socket closed")}
	devs, err := NewZoneDevices(testController(), Options{Writer: w})
	if err != nil {
		t.Fatalf("NewZoneDevices: %v", err)
	}
	if _, err := devs[1].Update(context.Background(), true); !errors.Is(err, device.ErrSubmit) {
		t.Errorf("Update error = %v, want ErrSubmit", err)
	}
}

func TestNewZoneDevicesRequiresOutput(t *testing.T) {
	if _, err := NewZoneDevices(testController(), Options{}); !errors.Is(err, ErrWriterRequired) {
		t.Errorf("err = %v, want ErrWriterRequired", err)
	}
}

func TestNewZoneDevicesInvalidZone(t *testing.T) {
	c := testController()
	c.Zones[3].Type = ZoneMatrix
	c.Zones[3].Matrix = [][]uint32{{0, 9}}
	conn := &fakeConn{}

	_, err := NewZoneDevices(c, Options{Writer: &fakeWriter{}, Conn: conn})
	if !errors.Is(err, device.ErrInvalidZone) {
		t.Fatalf("err = %v, want ErrInvalidZone", err)
	}
	if conn.closed != 1 {
		t.Errorf("conn closed %d times, want 1", conn.closed)
	}
}

func TestDefaultNames(t *testing.T) {
	tests := map[string]led.ID{
		"Key: F5":           led.KeyboardF5,
		"Key: 0":            led.Keyboard0,
		"Key: Z":            led.KeyboardZ,
		"Key: Number Pad 7": led.KeyboardNum7,
		"Key: Space":        led.KeyboardSpace,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			if got := DefaultNames[name]; got != want {
				t.Errorf("DefaultNames[%q] = %s, want %s", name, got, want)
			}
		})
	}
}
