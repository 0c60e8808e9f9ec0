package led

import (
	"fmt"
	"strings"
)

// Shape describes the outline of a LED inside its rectangle.
type Shape string

// Supported shapes.
const (
	ShapeRectangle Shape = "rectangle"
	ShapeCircle    Shape = "circle"
	// ShapeCustom outlines are described by SVG path data in unit-square
	// coordinates, stored as the LED's shape data.
	ShapeCustom Shape = "custom"
)

// AllShapes returns all supported shapes.
func AllShapes() []Shape {
	return []Shape{ShapeRectangle, ShapeCircle, ShapeCustom}
}

// ParseShape converts a textual shape, ignoring case. The empty string is
// a rectangle.
func ParseShape(s string) (Shape, error) {
	if strings.TrimSpace(s) == "" {
		return ShapeRectangle, nil
	}
	for _, sh := range AllShapes() {
		if strings.EqualFold(string(sh), strings.TrimSpace(s)) {
			return sh, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidShape, s)
}
