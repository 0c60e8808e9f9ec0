package device

import (
	"fmt"
	"math"
	"strings"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Zone placement constants.
const (
	// ZoneLedPitch is the distance between neighbouring zone LEDs.
	ZoneLedPitch = 20.0

	// ZoneLedSize is the edge length of a zone LED.
	ZoneLedSize = 19.0

	// NoElement marks a matrix cell without a light element.
	NoElement = math.MaxUint32
)

// ZoneKind is the arrangement of a zone's elements.
type ZoneKind string

// Zone kinds.
const (
	ZoneLinear ZoneKind = "linear"
	ZoneMatrix ZoneKind = "matrix"
)

// ParseZoneKind converts a textual zone kind, ignoring case. "single" is
// treated as linear.
func ParseZoneKind(s string) (ZoneKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear", "single":
		return ZoneLinear, nil
	case "matrix":
		return ZoneMatrix, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidZone, s)
	}
}

// Zone is a vendor-reported group of anonymous light elements.
type Zone struct {
	Name     string
	Kind     ZoneKind
	LedCount int

	// Matrix holds, per row and column, the zone-relative index of the
	// element at that position, or NoElement. Only used for ZoneMatrix.
	Matrix [][]uint32
}

// Validate checks that the matrix only references existing elements.
func (z Zone) Validate() error {
	if z.LedCount < 0 {
		return fmt.Errorf("%w: %s: negative led count", ErrInvalidZone, z.Name)
	}
	switch z.Kind {
	case ZoneLinear, "":
	case ZoneMatrix:
		for row, cells := range z.Matrix {
			for col, cell := range cells {
				if cell != NoElement && int64(cell) >= int64(z.LedCount) {
					return fmt.Errorf("%w: %s: cell %d,%d references element %d of %d",
						ErrInvalidZone, z.Name, row, col, cell, z.LedCount)
				}
			}
		}
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidZone, z.Name, z.Kind)
	}
	return nil
}

// ZonePlacement controls how a zone's elements become LEDs.
type ZonePlacement[T any] struct {
	// Offset is the index of the zone's first element in the vendor's flat
	// element list.
	Offset int

	// Origin is the device-local position of the zone's first cell.
	Origin geometry.Point

	// Names holds the vendor-reported element names, zone-relative. It may
	// be shorter than the zone.
	Names []string

	// Lookup maps vendor names to identifiers.
	Lookup map[string]led.ID

	// Fallback is the first identifier handed out to elements whose name
	// does not resolve, typically InitialLedID of the device type.
	Fallback led.ID

	// Data builds the custom data from the element's absolute vendor index
	// (Offset plus the zone-relative index).
	Data func(index int) T
}

// ApplyZone creates one LED per element of z and returns the number
// created.
//
// Matrix zones are walked row by row, skipping NoElement cells; linear
// zones are laid out left to right. Each element takes the id its vendor
// name resolves to, or else the next fallback id. When that id is already
// taken the next fallback id is tried, until an insert succeeds. The
// fallback never leaves its group: running past the group's last id
// returns ErrIDSpaceExhausted, keeping the LEDs placed so far.
//
// When the logical size is still unknown afterwards it is set to the
// extent of all LEDs.
func (b *Builder[T]) ApplyZone(z Zone, p ZonePlacement[T]) (int, error) {
	if err := z.Validate(); err != nil {
		return 0, err
	}
	d := b.device()

	next := p.Fallback
	placed := 0
	place := func(index int, at geometry.Point) error {
		id := led.Invalid
		if index < len(p.Names) {
			if resolved, ok := p.Lookup[p.Names[index]]; ok {
				id = resolved
			}
		}
		if id == led.Invalid {
			id, next = next, next.Next()
		}

		rect := geometry.Rectangle{Location: at, Size: geometry.Sz(ZoneLedSize, ZoneLedSize)}
		var data T
		if p.Data != nil {
			data = p.Data(p.Offset + index)
		}

		for attempts := 0; attempts <= led.GroupCapacity; attempts++ {
			if _, err := d.leds.Insert(id, rect, led.ShapeRectangle, "", data); err == nil {
				placed++
				return nil
			}
			if next == led.Invalid {
				break
			}
			id, next = next, next.Next()
		}
		return fmt.Errorf("%w: zone %q element %d (fallback from %s)",
			ErrIDSpaceExhausted, z.Name, p.Offset+index, p.Fallback)
	}

	switch z.Kind {
	case ZoneMatrix:
		for row, cells := range z.Matrix {
			for col, cell := range cells {
				if cell == NoElement {
					continue
				}
				at := p.Origin.Add(geometry.Pt(float64(col)*ZoneLedPitch, float64(row)*ZoneLedPitch))
				if err := place(int(cell), at); err != nil {
					return placed, err
				}
			}
		}
	default:
		for i := range z.LedCount {
			at := p.Origin.Add(geometry.Pt(float64(i)*ZoneLedPitch, 0))
			if err := place(i, at); err != nil {
				return placed, err
			}
		}
	}

	if !d.logicalSize.IsValid() {
		if ext, ok := d.leds.Extent(); ok {
			d.setLogicalSize(geometry.Sz(ext.Max().X, ext.Max().Y))
		}
	}

	d.logger.Debug("zone placed",
		"device", d.info.Name(),
		"zone", z.Name,
		"kind", z.Kind,
		"leds", placed,
	)
	return placed, nil
}
