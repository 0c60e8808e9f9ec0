package geometry

import (
	"fmt"
	"math"
)

// Size is a width and height.
//
// The zero Size is valid (0x0). A size that has not been determined yet is
// represented by InvalidSize, which never compares equal to a real size.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// InvalidSize marks a size that is not yet known.
var InvalidSize = Size{Width: math.NaN(), Height: math.NaN()}

// Sz is a shorthand for Size{Width: w, Height: h}.
func Sz(w, h float64) Size {
	return Size{Width: w, Height: h}
}

// IsValid reports whether both dimensions are known, finite and non-negative.
func (s Size) IsValid() bool {
	return s.IsKnown() && s.Width >= 0 && s.Height >= 0
}

// IsKnown reports whether both dimensions are finite. Unlike IsValid it
// accepts negative (mirrored) dimensions.
func (s Size) IsKnown() bool {
	return isFinite(s.Width) && isFinite(s.Height)
}

// Abs returns s with both dimensions made non-negative.
func (s Size) Abs() Size {
	return Size{Width: math.Abs(s.Width), Height: math.Abs(s.Height)}
}

// Equal reports value equality. Two unknown sizes are equal to each other.
func (s Size) Equal(o Size) bool {
	if !s.IsKnown() || !o.IsKnown() {
		return !s.IsKnown() && !o.IsKnown()
	}
	return s == o
}

// Scaled returns s multiplied component-wise by sc. A negative factor
// mirrors that axis and yields a negative dimension. An unknown size stays
// unknown.
func (s Size) Scaled(sc Scale) Size {
	if !s.IsKnown() {
		return InvalidSize
	}
	return Size{Width: s.Width * sc.Horizontal, Height: s.Height * sc.Vertical}
}

// Area returns |Width*Height|, or 0 for an unknown size.
func (s Size) Area() float64 {
	if !s.IsKnown() {
		return 0
	}
	return math.Abs(s.Width * s.Height)
}

// String implements fmt.Stringer.
func (s Size) String() string {
	if !s.IsKnown() {
		return "invalid"
	}
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Scale holds horizontal and vertical scale factors.
type Scale struct {
	Horizontal float64 `json:"horizontal" yaml:"horizontal"`
	Vertical   float64 `json:"vertical" yaml:"vertical"`
}

// DefaultScale is the identity scale.
var DefaultScale = Scale{Horizontal: 1, Vertical: 1}

// Uniform returns a Scale with both factors set to f.
func Uniform(f float64) Scale {
	return Scale{Horizontal: f, Vertical: f}
}

// Rotation is an angle in degrees. Positive values rotate clockwise in
// screen coordinates (y grows downwards).
type Rotation struct {
	Degrees float64 `json:"degrees" yaml:"degrees"`
}

// Deg is a shorthand for Rotation{Degrees: d}.
func Deg(d float64) Rotation {
	return Rotation{Degrees: d}
}

// Radians returns the angle in radians.
func (r Rotation) Radians() float64 {
	return r.Degrees * math.Pi / 180
}

// MarshalJSON encodes an unknown size as null.
func (s Size) MarshalJSON() ([]byte, error) {
	if !s.IsKnown() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`{"width":%g,"height":%g}`, s.Width, s.Height)), nil
}
