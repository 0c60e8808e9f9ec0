package layout

import (
	"fmt"
	"math"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// DefaultLedUnit is the edge length, in millimetres, of one LED unit when a
// document does not declare its own.
const DefaultLedUnit = 19.0

// Layout is a resolved device layout: every LED has an absolute,
// device-local rectangle.
type Layout struct {
	Name         string
	Description  string
	Type         string
	Lighting     string
	Manufacturer string
	Model        string

	// Size is the device's logical size.
	Size geometry.Size

	// ImageBasePath is the directory image references are resolved
	// against. Empty disables relative image references.
	ImageBasePath string

	// DeviceImage is the device's display image, relative to ImageBasePath.
	DeviceImage string

	Leds         []Placement
	ImageLayouts []ImageLayout
}

// Placement positions one LED. ID is kept textual; resolving it to a
// led.ID happens when the layout is applied so that unknown ids can be
// skipped there.
type Placement struct {
	ID        string
	Rectangle geometry.Rectangle
	Shape     led.Shape
	ShapeData string
}

// ImageLayout is a named set of per-LED images (for example one per
// keyboard physical layout or keycap set).
type ImageLayout struct {
	Name   string
	Images []Image
}

// Image binds a LED id to an image reference.
type Image struct {
	ID   string
	Path string
}

// FindImageLayout returns the image layout called name, ignoring case.
func (l *Layout) FindImageLayout(name string) (*ImageLayout, bool) {
	if name == "" {
		return nil, false
	}
	for i := range l.ImageLayouts {
		if strings.EqualFold(l.ImageLayouts[i].Name, name) {
			return &l.ImageLayouts[i], true
		}
	}
	return nil, false
}

// Lookup returns the image reference for a LED id, ignoring case.
func (il *ImageLayout) Lookup(id string) (string, bool) {
	for _, img := range il.Images {
		if strings.EqualFold(img.ID, id) {
			return img.Path, true
		}
	}
	return "", false
}

// ResolveImage turns an image reference into an absolute URI.
//
// URIs with a scheme are returned as-is. Absolute paths become file URIs.
// Relative paths are joined with ImageBasePath; when there is no base path
// the boolean is false and the image should be omitted.
func (l *Layout) ResolveImage(ref string) (*url.URL, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	if u, err := url.Parse(ref); err == nil && len(u.Scheme) > 1 {
		return u, true
	}

	p := ref
	if !filepath.IsAbs(p) {
		if l.ImageBasePath == "" {
			return nil, false
		}
		p = filepath.Join(l.ImageBasePath, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, false
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, true
}

// Validate checks that the layout can be applied without partial failure.
// Errors wrap ErrMalformed.
func (l *Layout) Validate() error {
	var errs []string

	if !l.Size.IsValid() || l.Size.Width <= 0 || l.Size.Height <= 0 {
		errs = append(errs, fmt.Sprintf("device size %s must be positive", l.Size))
	}
	for i, p := range l.Leds {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, fmt.Sprintf("leds[%d]: id is required", i))
		}
		if !p.Rectangle.Size.IsValid() || !isFinitePoint(p.Rectangle.Location) {
			errs = append(errs, fmt.Sprintf("leds[%d] (%s): invalid rectangle %s", i, p.ID, p.Rectangle))
		}
		if _, err := led.ParseShape(string(p.Shape)); err != nil {
			errs = append(errs, fmt.Sprintf("leds[%d] (%s): %v", i, p.ID, err))
			continue
		}
		if p.Shape == led.ShapeCustom {
			if err := ValidateShapeData(p.ShapeData); err != nil {
				errs = append(errs, fmt.Sprintf("leds[%d] (%s): %v", i, p.ID, err))
			}
		}
	}
	for i, il := range l.ImageLayouts {
		if strings.TrimSpace(il.Name) == "" {
			errs = append(errs, fmt.Sprintf("image_layouts[%d]: layout name is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformed, strings.Join(errs, "; "))
	}
	return nil
}

func isFinitePoint(p geometry.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
