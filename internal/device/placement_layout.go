package device

import (
	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/layout"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// ApplyLayout places LEDs from l.
//
// The layout is validated before anything changes; a malformed layout
// returns layout.ErrMalformed and leaves the device untouched. Then:
//
//  1. the logical size is set from the layout;
//  2. the device image is resolved against the image base path;
//  3. the image layout named imageLayout is selected, ignoring case
//     (missing means no LED images);
//  4. each entry's id is parsed, ignoring case, and unknown ids are
//     skipped. An id without a LED is skipped unless createMissing is set,
//     in which case a zero-sized placeholder is created first. The LED's
//     rectangle, shape, shape data and image are then overwritten.
func (b *Builder[T]) ApplyLayout(l *layout.Layout, imageLayout string, createMissing bool) error {
	if err := l.Validate(); err != nil {
		return err
	}

	d := b.device()
	d.setLogicalSize(l.Size)

	if l.DeviceImage != "" {
		if u, ok := l.ResolveImage(l.DeviceImage); ok {
			d.info.Image = u
		}
	}

	images, hasImages := l.FindImageLayout(imageLayout)

	var applied, created, skipped int
	for _, p := range l.Leds {
		id, err := led.Parse(p.ID)
		if err != nil {
			d.logger.Debug("skipping unknown layout led", "device", d.info.Name(), "id", p.ID)
			skipped++
			continue
		}

		target, ok := d.leds.Get(id)
		if !ok {
			if !createMissing {
				skipped++
				continue
			}
			target, err = d.leds.Insert(id, geometry.Rect(0, 0, 0, 0), led.ShapeRectangle, "", d.customData(id))
			if err != nil {
				skipped++
				continue
			}
			created++
		}

		target.SetRectangle(p.Rectangle)
		target.SetShape(p.Shape, p.ShapeData)
		target.SetImage(nil)
		if hasImages {
			if ref, ok := images.Lookup(p.ID); ok {
				if u, ok := l.ResolveImage(ref); ok {
					target.SetImage(u)
				}
			}
		}
		applied++
	}

	d.logger.Debug("layout applied",
		"device", d.info.Name(),
		"layout", l.Name,
		"applied", applied,
		"created", created,
		"skipped", skipped,
	)
	return nil
}
