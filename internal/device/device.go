package device

import (
	"context"
	"fmt"
	"iter"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Logger defines the logging interface used by devices.
// This allows for easy testing with mock loggers.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// UpdateSink performs the hardware write for a finalized batch of LEDs.
//
// full is true when the batch holds every LED of the device (forced flush
// or a device that requires full writes) and false for dirty-only batches.
// Submit may queue the batch and return before the write completes; the
// device does not retry on failure.
type UpdateSink[T any] interface {
	Submit(ctx context.Context, batch []led.Snapshot[T], full bool) error
}

// Handle is a vendor resource owned by a device for its whole lifetime,
// such as an SDK session. It is released exactly once by Dispose.
type Handle interface {
	Release() error
}

// Hooks are the device-specific behaviours supplied at construction.
// Every hook is optional.
type Hooks[T any] struct {
	// PreUpdate runs at the start of Update, before the update set is
	// computed. An error aborts the update.
	PreUpdate func(ctx context.Context) error

	// Teardown runs once during Dispose, after the registry is cleared.
	Teardown func() error

	// CustomData builds the custom data for LEDs created without explicit
	// data, such as placeholders created while applying a layout.
	CustomData func(id led.ID) T
}

// Options configure a new device.
type Options[T any] struct {
	Info Info

	// Sink receives every update batch. Required.
	Sink UpdateSink[T]

	// RequiresFullFlush makes every update send all LEDs, for protocols
	// that cannot address a subset of LEDs per write.
	RequiresFullFlush bool

	Hooks  Hooks[T]
	Handle Handle
	Logger Logger

	// Location, Scale and Rotation set the initial placement. A zero Scale
	// means geometry.DefaultScale.
	Location geometry.Point
	Scale    geometry.Scale
	Rotation geometry.Rotation
}

// Device is a physical lighting device presented as a set of LEDs with
// spatial coordinates.
//
// T is the custom data attached to each LED, typically the vendor's own
// addressing for that element.
//
// Thread Safety:
//   - Device has no internal locking. Geometry setters, LED mutations,
//     Update and Dispose must be serialised by a single owner (see the
//     host package). Read-only queries may run concurrently with each
//     other.
type Device[T any] struct {
	info              Info
	location          geometry.Point
	logicalSize       geometry.Size
	scale             geometry.Scale
	rotation          geometry.Rotation
	actualSize        geometry.Size
	rect              geometry.Rectangle
	requiresFullFlush bool

	leds   *led.Registry[T]
	sink   UpdateSink[T]
	hooks  Hooks[T]
	handle Handle
	logger Logger

	disposed bool
}

// New creates a device and runs setup, which populates its LEDs through a
// Builder. The builder is only valid during setup.
//
// If setup fails the device is disposed (releasing the handle) and the error
// is returned.
func New[T any](opts Options[T], setup func(b *Builder[T]) error) (*Device[T], error) {
	if opts.Sink == nil {
		return nil, ErrSinkRequired
	}

	d := &Device[T]{
		info:              opts.Info,
		location:          opts.Location,
		logicalSize:       geometry.InvalidSize,
		scale:             opts.Scale,
		rotation:          opts.Rotation,
		requiresFullFlush: opts.RequiresFullFlush,
		leds:              led.NewRegistry[T](),
		sink:              opts.Sink,
		hooks:             opts.Hooks,
		handle:            opts.Handle,
		logger:            opts.Logger,
	}
	if d.scale == (geometry.Scale{}) {
		d.scale = geometry.DefaultScale
	}
	if d.logger == nil {
		d.logger = noopLogger{}
	}
	if d.info.Type == "" {
		d.info.Type = TypeUnknown
	}
	d.recompute()

	if setup != nil {
		b := &Builder[T]{d: d}
		err := setup(b)
		b.d = nil
		if err != nil {
			d.Dispose()
			return nil, fmt.Errorf("setting up %s: %w", d.info.Name(), err)
		}
	}

	d.logger.Debug("device created",
		"device", d.info.Name(),
		"type", d.info.Type,
		"leds", d.leds.Len(),
	)
	return d, nil
}

// recompute derives the actual size and bounding rectangle from the four
// geometry inputs.
func (d *Device[T]) recompute() {
	d.actualSize = d.logicalSize.Scaled(d.scale)
	if !d.actualSize.IsKnown() {
		d.rect = geometry.Rectangle{Location: d.location, Size: geometry.InvalidSize}
		return
	}
	rotated := geometry.Rectangle{Location: d.location, Size: d.actualSize}.Rotate(d.rotation)
	d.rect = geometry.Rectangle{Location: d.location, Size: rotated.Size}
}

// Info returns the device metadata.
func (d *Device[T]) Info() Info { return d.info }

// Location returns the device's position on the surface.
func (d *Device[T]) Location() geometry.Point { return d.location }

// LogicalSize returns the unscaled device size, or geometry.InvalidSize
// before it is known.
func (d *Device[T]) LogicalSize() geometry.Size { return d.logicalSize }

// Scale returns the device's scale factors.
func (d *Device[T]) Scale() geometry.Scale { return d.scale }

// Rotation returns the device's rotation.
func (d *Device[T]) Rotation() geometry.Rotation { return d.rotation }

// ActualSize returns LogicalSize multiplied by Scale.
func (d *Device[T]) ActualSize() geometry.Size { return d.actualSize }

// Rectangle returns the bounding rectangle of the scaled, rotated device
// placed at Location.
func (d *Device[T]) Rectangle() geometry.Rectangle { return d.rect }

// RequiresFullFlush reports whether every update sends all LEDs.
func (d *Device[T]) RequiresFullFlush() bool { return d.requiresFullFlush }

// SetLocation moves the device.
func (d *Device[T]) SetLocation(p geometry.Point) {
	if p == d.location {
		return
	}
	d.location = p
	d.recompute()
}

// SetScale changes the device's scale factors.
func (d *Device[T]) SetScale(s geometry.Scale) {
	if s == d.scale {
		return
	}
	d.scale = s
	d.recompute()
}

// SetRotation changes the device's rotation.
func (d *Device[T]) SetRotation(r geometry.Rotation) {
	if r == d.rotation {
		return
	}
	d.rotation = r
	d.recompute()
}

func (d *Device[T]) setLogicalSize(s geometry.Size) {
	if s.Equal(d.logicalSize) {
		return
	}
	d.logicalSize = s
	d.recompute()
}

// Len returns the number of LEDs.
func (d *Device[T]) Len() int { return d.leds.Len() }

// Led returns the LED with the given identifier.
func (d *Device[T]) Led(id led.ID) (*led.Led[T], bool) { return d.leds.Get(id) }

// LedAt returns the first LED, in registry order, containing the
// device-local point p.
func (d *Device[T]) LedAt(p geometry.Point) (*led.Led[T], bool) { return d.leds.FindAt(p) }

// LedsOverlapping yields the LEDs covered by the device-local probe
// rectangle; see led.Registry.FindOverlapping.
func (d *Device[T]) LedsOverlapping(probe geometry.Rectangle, minOverlap float64) iter.Seq[*led.Led[T]] {
	return d.leds.FindOverlapping(probe, minOverlap)
}

// Leds yields every LED in registry order.
func (d *Device[T]) Leds() iter.Seq[*led.Led[T]] { return d.leds.All() }

// Update pushes LED colours to the update sink.
//
// The pre-update hook runs first. Then, if flush is set or the device
// requires full flushes, every LED is finalized; otherwise only dirty LEDs
// are. Finalized snapshots go to the sink in one call, in registry order,
// even when the batch is empty. It returns the batch size.
//
// A pre-update failure returns ErrPreUpdate before any LED is finalized. A
// sink failure returns ErrSubmit; the LEDs stay finalized.
func (d *Device[T]) Update(ctx context.Context, flush bool) (int, error) {
	if d.disposed {
		return 0, ErrDisposed
	}

	if d.hooks.PreUpdate != nil {
		if err := d.hooks.PreUpdate(ctx); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrPreUpdate, err)
		}
	}

	full := flush || d.requiresFullFlush
	set := d.leds.Dirty()
	if full {
		set = d.leds.All()
	}

	batch := make([]led.Snapshot[T], 0, d.leds.Len())
	for l := range set {
		batch = append(batch, l.Finalize())
	}

	if err := d.sink.Submit(ctx, batch, full); err != nil {
		return len(batch), fmt.Errorf("%w: %w", ErrSubmit, err)
	}
	return len(batch), nil
}

// Dispose clears the registry, runs the teardown hook and releases the
// vendor handle. It never fails: teardown errors and panics are logged and
// swallowed. Calling it again only clears the (already empty) registry.
func (d *Device[T]) Dispose() {
	d.leds.Clear()
	if d.disposed {
		return
	}
	d.disposed = true

	if d.hooks.Teardown != nil {
		if err := safeCall(d.hooks.Teardown); err != nil {
			d.logger.Warn("device teardown failed", "device", d.info.Name(), "error", err)
		}
	}
	if d.handle != nil {
		if err := safeCall(d.handle.Release); err != nil {
			d.logger.Warn("releasing device handle failed", "device", d.info.Name(), "error", err)
		}
	}
	d.logger.Debug("device disposed", "device", d.info.Name())
}

// Disposed reports whether Dispose has been called.
func (d *Device[T]) Disposed() bool { return d.disposed }

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (d *Device[T]) customData(id led.ID) T {
	if d.hooks.CustomData != nil {
		return d.hooks.CustomData(id)
	}
	var zero T
	return zero
}
