package openrgb

import (
	"context"
	"image/color"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
)

// ZoneType mirrors OpenRGB's zone_type values.
type ZoneType int

// Zone types.
const (
	ZoneSingle ZoneType = iota
	ZoneLinear
	ZoneMatrix
)

// Controller is the description of one controller as reported by the SDK.
type Controller struct {
	Index  int
	Name   string
	Vendor string
	Type   device.Type
	Leds   []Led
	Zones  []Zone
}

// Led is an entry of the controller's flat LED list.
type Led struct {
	Name string
}

// Zone is a group of LEDs, a contiguous range of the flat LED list.
type Zone struct {
	Name      string
	Type      ZoneType
	LedsCount int

	// Matrix holds zone-relative LED indices per row and column;
	// device.NoElement marks an empty cell. Only set for ZoneMatrix.
	Matrix [][]uint32
}

// Writer pushes colours to one zone of a controller.
type Writer interface {
	UpdateZoneLeds(ctx context.Context, controller, zone int, colors []color.NRGBA) error
}

func (z Zone) kind() device.ZoneKind {
	if z.Type == ZoneMatrix && len(z.Matrix) > 0 {
		return device.ZoneMatrix
	}
	return device.ZoneLinear
}

func (c Controller) names(offset, count int) []string {
	names := make([]string, 0, count)
	for i := offset; i < offset+count && i < len(c.Leds); i++ {
		names = append(names, c.Leds[i].Name)
	}
	return names
}
