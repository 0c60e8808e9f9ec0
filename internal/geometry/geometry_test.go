package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func approxRect(t *testing.T, got, want Rectangle) {
	t.Helper()
	if !approx(got.Location.X, want.Location.X) || !approx(got.Location.Y, want.Location.Y) ||
		!approx(got.Size.Width, want.Size.Width) || !approx(got.Size.Height, want.Size.Height) {
		t.Errorf("rectangle = %v, want %v", got, want)
	}
}

func TestSizeValidity(t *testing.T) {
	tests := []struct {
		name string
		size Size
		want bool
	}{
		{"zero", Size{}, true},
		{"positive", Sz(10, 20), true},
		{"invalid", InvalidSize, false},
		{"negative", Sz(-1, 5), false},
		{"infinite", Sz(math.Inf(1), 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.size.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSizeEqual(t *testing.T) {
	if !InvalidSize.Equal(InvalidSize) {
		t.Error("InvalidSize should equal itself")
	}
	if InvalidSize.Equal(Sz(0, 0)) {
		t.Error("InvalidSize should not equal a real size")
	}
	if !Sz(3, 4).Equal(Sz(3, 4)) {
		t.Error("equal sizes reported unequal")
	}
}

func TestSizeScaled(t *testing.T) {
	got := Sz(10, 10).Scaled(Scale{Horizontal: 2, Vertical: 3})
	if got != Sz(20, 30) {
		t.Errorf("Scaled() = %v, want 20x30", got)
	}
	mirrored := Sz(10, 4).Scaled(Scale{Horizontal: -1, Vertical: 2})
	if mirrored != Sz(-10, 8) {
		t.Errorf("Scaled(mirror) = %v, want -10x8", mirrored)
	}
	if !mirrored.IsKnown() || mirrored.IsValid() {
		t.Errorf("mirrored size known=%v valid=%v, want known and not valid", mirrored.IsKnown(), mirrored.IsValid())
	}
	if mirrored.Area() != 80 {
		t.Errorf("Area() = %v, want 80", mirrored.Area())
	}
	if InvalidSize.Scaled(Uniform(2)).IsValid() {
		t.Error("scaling an invalid size should stay invalid")
	}
}

func TestRectangleContains(t *testing.T) {
	r := Rect(10, 10, 20, 20)
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Pt(15, 15), true},
		{"top-left corner", Pt(10, 10), true},
		{"bottom-right corner", Pt(30, 30), true},
		{"left of", Pt(9.99, 15), false},
		{"below", Pt(15, 30.01), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectangleIntersect(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	tests := []struct {
		name     string
		b        Rectangle
		wantHit  bool
		wantArea float64
	}{
		{"overlap", Rect(5, 5, 10, 10), true, 25},
		{"contained", Rect(2, 2, 2, 2), true, 4},
		{"edge touch", Rect(10, 0, 5, 5), true, 0},
		{"corner touch", Rect(10, 10, 5, 5), true, 0},
		{"disjoint", Rect(11, 0, 5, 5), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.wantHit {
				t.Errorf("Intersects() = %v, want %v", got, tt.wantHit)
			}
			if got := a.IntersectArea(tt.b); !approx(got, tt.wantArea) {
				t.Errorf("IntersectArea() = %v, want %v", got, tt.wantArea)
			}
		})
	}
}

func TestOverlapRatioIsRelativeToProbe(t *testing.T) {
	led := Rect(0, 0, 10, 10)
	probe := Rect(5, 0, 10, 10)

	if got := probe.OverlapRatio(led); !approx(got, 0.5) {
		t.Errorf("probe.OverlapRatio(led) = %v, want 0.5", got)
	}

	small := Rect(2, 2, 2, 2)
	if got := small.OverlapRatio(led); !approx(got, 1) {
		t.Errorf("small.OverlapRatio(led) = %v, want 1", got)
	}
	if got := led.OverlapRatio(small); !approx(got, 0.04) {
		t.Errorf("led.OverlapRatio(small) = %v, want 0.04", got)
	}
}

func TestOverlapRatioZeroArea(t *testing.T) {
	zero := Rect(5, 5, 0, 0)
	if got := zero.OverlapRatio(Rect(0, 0, 10, 10)); got != 0 {
		t.Errorf("zero-area OverlapRatio = %v, want 0", got)
	}
	if got := Rect(0, 0, 10, 10).OverlapRatio(zero); got != 0 {
		t.Errorf("OverlapRatio against zero-area = %v, want 0", got)
	}
}

func TestRectangleRotate(t *testing.T) {
	tests := []struct {
		name string
		r    Rectangle
		rot  Rotation
		want Rectangle
	}{
		{"no rotation", Rect(0, 0, 10, 20), Deg(0), Rect(0, 0, 10, 20)},
		{"quarter turn", Rect(0, 0, 10, 20), Deg(90), Rect(-5, 5, 20, 10)},
		{"half turn", Rect(0, 0, 10, 20), Deg(180), Rect(0, 0, 10, 20)},
		{"negative quarter", Rect(0, 0, 10, 20), Deg(-90), Rect(-5, 5, 20, 10)},
		{"45 degrees square", Rect(0, 0, 10, 10), Deg(45),
			Rect(5-5*math.Sqrt2, 5-5*math.Sqrt2, 10*math.Sqrt2, 10*math.Sqrt2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approxRect(t, tt.r.Rotate(tt.rot), tt.want)
		})
	}
}

func TestRectangleUnion(t *testing.T) {
	got := Rect(0, 0, 10, 10).Union(Rect(20, 5, 5, 10))
	if got != Rect(0, 0, 25, 15) {
		t.Errorf("Union() = %v, want (0,0) 25x15", got)
	}

	empty := Rectangle{Size: InvalidSize}
	if got := empty.Union(Rect(1, 1, 1, 1)); got != Rect(1, 1, 1, 1) {
		t.Errorf("Union with invalid = %v", got)
	}
}

func TestRectangleCanon(t *testing.T) {
	tests := []struct {
		name string
		r    Rectangle
		want Rectangle
	}{
		{"positive", Rect(1, 2, 3, 4), Rect(1, 2, 3, 4)},
		{"mirrored x", Rect(10, 0, -4, 2), Rect(6, 0, 4, 2)},
		{"mirrored both", Rect(10, 10, -4, -2), Rect(6, 8, 4, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Canon(); got != tt.want {
				t.Errorf("Canon() = %v, want %v", got, tt.want)
			}
			if !tt.r.Contains(tt.want.Center()) {
				t.Errorf("Contains(%v) = false for %v", tt.want.Center(), tt.r)
			}
		})
	}
}
