package led

import (
	"iter"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
)

// Registry maps identifiers to the LEDs of one device.
//
// Iteration follows insertion order. Identifiers are unique and Invalid is
// never stored.
//
// Thread Safety:
//   - Registry has no internal locking. Mutations (Insert, Clear, LED
//     setters) need exclusive access; read-only queries may run
//     concurrently with each other.
type Registry[T any] struct {
	order []*Led[T]
	index map[ID]*Led[T]
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{index: make(map[ID]*Led[T])}
}

// Insert creates a LED. It returns ErrInvalidID for Invalid and
// ErrDuplicateID when id is already present; in both cases the registry is
// left untouched and callers should treat the result as "already
// initialised".
func (r *Registry[T]) Insert(id ID, rect geometry.Rectangle, shape Shape, shapeData string, data T) (*Led[T], error) {
	if !id.IsValid() {
		return nil, ErrInvalidID
	}
	if _, exists := r.index[id]; exists {
		return nil, ErrDuplicateID
	}
	if shape == "" {
		shape = ShapeRectangle
	}

	l := &Led[T]{
		id:        id,
		rect:      rect,
		shape:     shape,
		shapeData: shapeData,
		data:      data,
	}
	r.order = append(r.order, l)
	r.index[id] = l
	return l, nil
}

// Get returns the LED with the given identifier.
func (r *Registry[T]) Get(id ID) (*Led[T], bool) {
	l, ok := r.index[id]
	return l, ok
}

// FindAt returns the first LED, in registry order, whose rectangle contains
// p. When rectangles overlap the earliest inserted LED wins; no nearest or
// smallest tie-break is applied.
func (r *Registry[T]) FindAt(p geometry.Point) (*Led[T], bool) {
	for _, l := range r.order {
		if l.rect.Contains(p) {
			return l, true
		}
	}
	return nil, false
}

// FindOverlapping lazily yields, in registry order, the LEDs covered by
// probe.
//
// With minOverlap <= 0 every LED whose closed rectangle touches or
// intersects probe is yielded, including zero-area contact. Otherwise a LED
// is yielded when probe.OverlapRatio(led) >= minOverlap, i.e. at least that
// fraction of the probe falls on the LED.
func (r *Registry[T]) FindOverlapping(probe geometry.Rectangle, minOverlap float64) iter.Seq[*Led[T]] {
	return func(yield func(*Led[T]) bool) {
		for _, l := range r.order {
			var hit bool
			if minOverlap <= 0 {
				hit = probe.Intersects(l.rect)
			} else {
				hit = probe.OverlapRatio(l.rect) >= minOverlap
			}
			if hit && !yield(l) {
				return
			}
		}
	}
}

// All yields every LED in registry order.
func (r *Registry[T]) All() iter.Seq[*Led[T]] {
	return func(yield func(*Led[T]) bool) {
		for _, l := range r.order {
			if !yield(l) {
				return
			}
		}
	}
}

// Dirty yields the LEDs whose colour changed since their last Finalize.
func (r *Registry[T]) Dirty() iter.Seq[*Led[T]] {
	return func(yield func(*Led[T]) bool) {
		for _, l := range r.order {
			if l.dirty && !yield(l) {
				return
			}
		}
	}
}

// Len returns the number of LEDs.
func (r *Registry[T]) Len() int {
	return len(r.order)
}

// Extent returns the bounding box of all LED rectangles. The boolean is
// false for an empty registry.
func (r *Registry[T]) Extent() (geometry.Rectangle, bool) {
	if len(r.order) == 0 {
		return geometry.Rectangle{}, false
	}
	ext := geometry.Rectangle{Size: geometry.InvalidSize}
	for _, l := range r.order {
		ext = ext.Union(l.rect)
	}
	return ext, true
}

// Clear removes every LED.
func (r *Registry[T]) Clear() {
	clear(r.index)
	r.order = nil
}
