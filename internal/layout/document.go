package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// document is the YAML form of a layout file.
//
// LED coordinates may be relative to the previous LED:
//
//	x/y:          12.5   absolute
//	              =      same as previous
//	              +      previous + previous size (default for x)
//	              +N     previous + previous size + N
//	              -      previous - own size
//	              -N     previous - own size - N
//	width/height: (empty) one LED unit
//	              N      N LED units
//	              Nmm    N millimetres
//
// y defaults to "=".
type document struct {
	Name          string                `yaml:"name"`
	Description   string                `yaml:"description"`
	Type          string                `yaml:"type"`
	Lighting      string                `yaml:"lighting"`
	Vendor        string                `yaml:"vendor"`
	Model         string                `yaml:"model"`
	Width         Dimension             `yaml:"width"`
	Height        Dimension             `yaml:"height"`
	LedUnitWidth  Dimension             `yaml:"led_unit_width"`
	LedUnitHeight Dimension             `yaml:"led_unit_height"`
	ImageBasePath string                `yaml:"image_base_path"`
	DeviceImage   string                `yaml:"device_image"`
	Leds          []ledDocument         `yaml:"leds"`
	ImageLayouts  []imageLayoutDocument `yaml:"image_layouts"`
}

type ledDocument struct {
	ID        string    `yaml:"id"`
	X         Dimension `yaml:"x"`
	Y         Dimension `yaml:"y"`
	Width     Dimension `yaml:"width"`
	Height    Dimension `yaml:"height"`
	Shape     string    `yaml:"shape"`
	ShapeData string    `yaml:"shape_data"`
}

type imageLayoutDocument struct {
	Layout string `yaml:"layout"`
	Images []struct {
		ID    string `yaml:"id"`
		Image string `yaml:"image"`
	} `yaml:"images"`
}

// Dimension is a raw scalar from a layout document, kept as text so that
// relative forms like "+4" survive decoding.
type Dimension string

// UnmarshalYAML accepts any scalar.
func (d *Dimension) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", value.Line)
	}
	*d = Dimension(strings.TrimSpace(value.Value))
	return nil
}

// Parse decodes and validates a layout document. Relative image base paths
// are kept as written; use Load to anchor them to the file's directory.
func Parse(data []byte) (*Layout, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	l, err := doc.resolve()
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Load reads and parses the layout file at path. A relative image base
// path is resolved against the file's directory.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading layout file: %w", err)
	}

	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	anchorBasePath(l, filepath.Dir(path))
	return l, nil
}

// anchorBasePath makes a relative image base path absolute with respect to
// dir.
func anchorBasePath(l *Layout, dir string) {
	if l.ImageBasePath != "" && !filepath.IsAbs(l.ImageBasePath) && dir != "" {
		l.ImageBasePath = filepath.Join(dir, l.ImageBasePath)
	}
}

func (doc *document) resolve() (*Layout, error) {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	width, err := parseNumber(doc.Width)
	if err != nil {
		fail("width: %v", err)
	}
	height, err := parseNumber(doc.Height)
	if err != nil {
		fail("height: %v", err)
	}
	unitW, err := parseUnit(doc.LedUnitWidth)
	if err != nil {
		fail("led_unit_width: %v", err)
	}
	unitH, err := parseUnit(doc.LedUnitHeight)
	if err != nil {
		fail("led_unit_height: %v", err)
	}

	l := &Layout{
		Name:          doc.Name,
		Description:   doc.Description,
		Type:          doc.Type,
		Lighting:      doc.Lighting,
		Manufacturer:  doc.Vendor,
		Model:         doc.Model,
		Size:          geometry.Sz(width, height),
		ImageBasePath: doc.ImageBasePath,
		DeviceImage:   doc.DeviceImage,
		Leds:          make([]Placement, 0, len(doc.Leds)),
	}

	var prev geometry.Rectangle
	for i, ld := range doc.Leds {
		w, err := parseSize(ld.Width, unitW)
		if err != nil {
			fail("leds[%d] (%s): width: %v", i, ld.ID, err)
			continue
		}
		h, err := parseSize(ld.Height, unitH)
		if err != nil {
			fail("leds[%d] (%s): height: %v", i, ld.ID, err)
			continue
		}
		x, err := parseLocation(ld.X, "+", prev.Location.X, prev.Size.Width, w)
		if err != nil {
			fail("leds[%d] (%s): x: %v", i, ld.ID, err)
			continue
		}
		y, err := parseLocation(ld.Y, "=", prev.Location.Y, prev.Size.Height, h)
		if err != nil {
			fail("leds[%d] (%s): y: %v", i, ld.ID, err)
			continue
		}
		shape, err := led.ParseShape(ld.Shape)
		if err != nil {
			fail("leds[%d] (%s): %v", i, ld.ID, err)
			continue
		}

		prev = geometry.Rect(x, y, w, h)
		l.Leds = append(l.Leds, Placement{
			ID:        strings.TrimSpace(ld.ID),
			Rectangle: prev,
			Shape:     shape,
			ShapeData: strings.TrimSpace(ld.ShapeData),
		})
	}

	for _, il := range doc.ImageLayouts {
		out := ImageLayout{Name: il.Layout, Images: make([]Image, 0, len(il.Images))}
		for _, img := range il.Images {
			out.Images = append(out.Images, Image{ID: img.ID, Path: img.Image})
		}
		l.ImageLayouts = append(l.ImageLayouts, out)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(errs, "; "))
	}
	return l, nil
}

func parseNumber(d Dimension) (float64, error) {
	if d == "" {
		return 0, fmt.Errorf("value is required")
	}
	v, err := strconv.ParseFloat(string(d), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", d)
	}
	return v, nil
}

func parseUnit(d Dimension) (float64, error) {
	if d == "" {
		return DefaultLedUnit, nil
	}
	v, err := parseNumber(d)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %g", v)
	}
	return v, nil
}

// parseSize resolves a LED width or height: empty is one unit, "Nmm" is
// absolute and a bare number counts units.
func parseSize(d Dimension, unit float64) (float64, error) {
	s := string(d)
	if s == "" {
		return unit, nil
	}

	var v float64
	var err error
	if mm, ok := strings.CutSuffix(strings.ToLower(s), "mm"); ok {
		v, err = strconv.ParseFloat(strings.TrimSpace(mm), 64)
	} else {
		v, err = strconv.ParseFloat(s, 64)
		v *= unit
	}
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("size %q is negative", s)
	}
	return v, nil
}

// parseLocation resolves an x or y coordinate relative to the previous LED.
func parseLocation(d Dimension, def string, prevPos, prevSize, size float64) (float64, error) {
	s := string(d)
	if s == "" {
		s = def
	}

	switch {
	case s == "=":
		return prevPos, nil
	case s == "+":
		return prevPos + prevSize, nil
	case s == "-":
		return prevPos - size, nil
	case strings.HasPrefix(s, "+"):
		gap, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
		return prevPos + prevSize + gap, nil
	case strings.HasPrefix(s, "-"):
		gap, err := strconv.ParseFloat(s[1:], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
		return prevPos - size - gap, nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid position %q", s)
		}
		return v, nil
	}
}
