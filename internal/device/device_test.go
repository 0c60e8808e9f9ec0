package device

import (
	"context"
	"errors"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/roxaskeyheart/rgbnet-core/internal/geometry"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// recordingSink captures every submitted batch.
type recordingSink struct {
	batches [][]led.Snapshot[int]
	fulls   []bool
	err     error
}

func (s *recordingSink) Submit(_ context.Context, batch []led.Snapshot[int], full bool) error {
	s.batches = append(s.batches, slices.Clone(batch))
	s.fulls = append(s.fulls, full)
	return s.err
}

func (s *recordingSink) last(t *testing.T) []led.ID {
	t.Helper()
	if len(s.batches) == 0 {
		t.Fatal("no batch submitted")
	}
	var ids []led.ID
	for _, snap := range s.batches[len(s.batches)-1] {
		ids = append(ids, snap.ID)
	}
	return ids
}

// countingHandle counts releases.
type countingHandle struct {
	releases int
	err      error
}

func (h *countingHandle) Release() error {
	h.releases++
	return h.err
}

var red = color.NRGBA{R: 255, A: 255}

func newTestDevice(t *testing.T, opts Options[int], ids ...led.ID) (*Device[int], *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	if opts.Sink == nil {
		opts.Sink = sink
	}
	d, err := New(opts, func(b *Builder[int]) error {
		for i, id := range ids {
			if _, err := b.AddLedWithData(id, geometry.Rect(float64(i)*20, 0, 19, 19), i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d, sink
}

func checkGeometry(t *testing.T, d *Device[int]) {
	t.Helper()
	wantActual := d.LogicalSize().Scaled(d.Scale())
	if !d.ActualSize().Equal(wantActual) {
		t.Errorf("ActualSize() = %v, want %v", d.ActualSize(), wantActual)
	}
	rotated := geometry.Rectangle{Location: d.Location(), Size: wantActual}.Rotate(d.Rotation())
	want := geometry.Rectangle{Location: d.Location(), Size: rotated.Size}
	got := d.Rectangle()
	if got.Location != want.Location ||
		math.Abs(got.Size.Width-want.Size.Width) > 1e-9 ||
		math.Abs(got.Size.Height-want.Size.Height) > 1e-9 {
		t.Errorf("Rectangle() = %v, want %v", got, want)
	}
}

func TestNewRequiresSink(t *testing.T) {
	_, err := New[int](Options[int]{}, nil)
	if !errors.Is(err, ErrSinkRequired) {
		t.Errorf("New() error = %v, want ErrSinkRequired", err)
	}
}

func TestNewSetupFailureReleasesHandle(t *testing.T) {
	h := &countingHandle{}
	setupErr := errors.New("boom")
	_, err := New(Options[int]{Sink: &recordingSink{}, Handle: h}, func(*Builder[int]) error {
		return setupErr
	})
	if !errors.Is(err, setupErr) {
		t.Fatalf("New() error = %v, want setup error", err)
	}
	if h.releases != 1 {
		t.Errorf("handle released %d times, want 1", h.releases)
	}
}

func TestGeometryScenario(t *testing.T) {
	d, err := New(Options[int]{
		Sink:     &recordingSink{},
		Location: geometry.Pt(5, 5),
		Scale:    geometry.Uniform(2),
	}, func(b *Builder[int]) error {
		b.SetLogicalSize(geometry.Sz(10, 10))
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.ActualSize() != geometry.Sz(20, 20) {
		t.Errorf("ActualSize() = %v, want 20x20", d.ActualSize())
	}
	if d.Rectangle() != geometry.Rect(5, 5, 20, 20) {
		t.Errorf("Rectangle() = %v, want (5,5) 20x20", d.Rectangle())
	}
}

func TestMirroredScale(t *testing.T) {
	d, err := New(Options[int]{
		Sink:     &recordingSink{},
		Location: geometry.Pt(5, 5),
		Scale:    geometry.Scale{Horizontal: -2, Vertical: 1},
	}, func(b *Builder[int]) error {
		b.SetLogicalSize(geometry.Sz(10, 4))
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if d.ActualSize() != geometry.Sz(-20, 4) {
		t.Errorf("ActualSize() = %v, want -20x4", d.ActualSize())
	}
	if d.Rectangle() != geometry.Rect(5, 5, 20, 4) {
		t.Errorf("Rectangle() = %v, want (5,5) 20x4", d.Rectangle())
	}
}

func TestGeometrySettersKeepDerivedConsistent(t *testing.T) {
	d, err := New(Options[int]{Sink: &recordingSink{}}, func(b *Builder[int]) error {
		b.SetLogicalSize(geometry.Sz(40, 10))
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	checkGeometry(t, d)

	steps := []struct {
		name  string
		apply func()
	}{
		{"location", func() { d.SetLocation(geometry.Pt(100, 50)) }},
		{"scale", func() { d.SetScale(geometry.Scale{Horizontal: 2, Vertical: 0.5}) }},
		{"rotation", func() { d.SetRotation(geometry.Deg(90)) }},
		{"same rotation", func() { d.SetRotation(geometry.Deg(90)) }},
		{"rotation 30", func() { d.SetRotation(geometry.Deg(30)) }},
		{"mirror horizontally", func() { d.SetScale(geometry.Scale{Horizontal: -1, Vertical: 1}) }},
		{"mirror both", func() { d.SetScale(geometry.Uniform(-2)) }},
		{"reset scale", func() { d.SetScale(geometry.DefaultScale) }},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			s.apply()
			checkGeometry(t, d)
		})
	}

	d.SetRotation(geometry.Deg(90))
	if got := d.Rectangle().Size; math.Abs(got.Width-10) > 1e-9 || math.Abs(got.Height-40) > 1e-9 {
		t.Errorf("rotated size = %v, want 10x40", got)
	}
}

func TestUnknownSizeStaysInvalid(t *testing.T) {
	d, _ := newTestDevice(t, Options[int]{})
	if d.LogicalSize().IsValid() || d.ActualSize().IsValid() {
		t.Errorf("sizes should be invalid before they are set: %v %v", d.LogicalSize(), d.ActualSize())
	}
	d.SetScale(geometry.Uniform(3))
	if d.ActualSize().IsValid() {
		t.Error("scaling an unknown size should keep it invalid")
	}
}

func TestUpdateDirtyOnly(t *testing.T) {
	d, sink := newTestDevice(t, Options[int]{}, led.KeyboardA, led.KeyboardB, led.KeyboardC)

	if err := d.SetColor(led.KeyboardB, red); err != nil {
		t.Fatalf("SetColor() error = %v", err)
	}
	n, err := d.Update(context.Background(), false)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Update() = %d, want 1", n)
	}
	if got := sink.last(t); !slices.Equal(got, []led.ID{led.KeyboardB}) {
		t.Errorf("batch = %v, want [Keyboard_B]", got)
	}
	if sink.fulls[0] {
		t.Error("dirty-only update reported full")
	}
	b, _ := d.Led(led.KeyboardB)
	if b.IsDirty() {
		t.Error("LED still dirty after update")
	}
	if snap := sink.batches[0][0]; snap.Color != red || snap.Data != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, err := d.Update(context.Background(), false); err != nil {
		t.Fatalf("second Update() error = %v", err)
	}
	if len(sink.batches) != 2 || len(sink.batches[1]) != 0 {
		t.Errorf("second update batch = %v, want empty", sink.batches[1:])
	}
}

func TestUpdateForceFlush(t *testing.T) {
	d, sink := newTestDevice(t, Options[int]{}, led.KeyboardA, led.KeyboardB, led.KeyboardC)
	d.SetColor(led.KeyboardC, red)

	if _, err := d.Update(context.Background(), true); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := sink.last(t); !slices.Equal(got, []led.ID{led.KeyboardA, led.KeyboardB, led.KeyboardC}) {
		t.Errorf("batch = %v, want all LEDs in registry order", got)
	}
	if !sink.fulls[0] {
		t.Error("forced update should report full")
	}
	for l := range d.Leds() {
		if l.IsDirty() {
			t.Errorf("%v still dirty", l.ID())
		}
	}
}

func TestUpdateRequiresFullFlush(t *testing.T) {
	d, sink := newTestDevice(t, Options[int]{RequiresFullFlush: true}, led.KeyboardA, led.KeyboardB)

	if _, err := d.Update(context.Background(), false); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := sink.last(t); len(got) != 2 {
		t.Errorf("batch = %v, want every LED", got)
	}
	if !sink.fulls[0] {
		t.Error("full-flush device should report full")
	}
}

func TestUpdatePreUpdateFailure(t *testing.T) {
	hookErr := errors.New("sdk unavailable")
	var calls int
	d, sink := newTestDevice(t, Options[int]{
		Hooks: Hooks[int]{PreUpdate: func(context.Context) error {
			calls++
			return hookErr
		}},
	}, led.KeyboardA)
	d.SetColor(led.KeyboardA, red)

	_, err := d.Update(context.Background(), true)
	if !errors.Is(err, ErrPreUpdate) || !errors.Is(err, hookErr) {
		t.Fatalf("Update() error = %v, want ErrPreUpdate wrapping hook error", err)
	}
	if calls != 1 {
		t.Errorf("pre-update hook called %d times", calls)
	}
	if len(sink.batches) != 0 {
		t.Error("sink called despite pre-update failure")
	}
	a, _ := d.Led(led.KeyboardA)
	if !a.IsDirty() {
		t.Error("LED finalized despite pre-update failure")
	}
}

func TestUpdateSinkFailure(t *testing.T) {
	sinkErr := errors.New("queue full")
	sink := &recordingSink{err: sinkErr}
	d, _ := newTestDevice(t, Options[int]{Sink: sink}, led.KeyboardA)
	d.SetColor(led.KeyboardA, red)

	n, err := d.Update(context.Background(), false)
	if !errors.Is(err, ErrSubmit) || !errors.Is(err, sinkErr) {
		t.Fatalf("Update() error = %v, want ErrSubmit wrapping sink error", err)
	}
	if n != 1 {
		t.Errorf("Update() = %d, want 1", n)
	}
}

func TestSetColorUnknownLed(t *testing.T) {
	d, _ := newTestDevice(t, Options[int]{}, led.KeyboardA)
	if err := d.SetColor(led.KeyboardZ, red); !errors.Is(err, ErrLedNotFound) {
		t.Errorf("SetColor() error = %v, want ErrLedNotFound", err)
	}
}

func TestDisposeIsIdempotent(t *testing.T) {
	h := &countingHandle{err: errors.New("already closed")}
	var teardowns int
	d, _ := newTestDevice(t, Options[int]{
		Handle: h,
		Hooks: Hooks[int]{Teardown: func() error {
			teardowns++
			panic("sdk crashed")
		}},
	}, led.KeyboardA, led.KeyboardB)

	d.Dispose()
	d.Dispose()

	if d.Len() != 0 {
		t.Errorf("Len() after Dispose = %d", d.Len())
	}
	if teardowns != 1 {
		t.Errorf("teardown ran %d times, want 1", teardowns)
	}
	if h.releases != 1 {
		t.Errorf("handle released %d times, want 1", h.releases)
	}
	if _, err := d.Update(context.Background(), false); !errors.Is(err, ErrDisposed) {
		t.Errorf("Update() after Dispose error = %v, want ErrDisposed", err)
	}
}

func TestBuilderInvalidAfterSetup(t *testing.T) {
	var kept *Builder[int]
	if _, err := New(Options[int]{Sink: &recordingSink{}}, func(b *Builder[int]) error {
		kept = b
		return nil
	}); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("using the builder after setup should panic")
		}
	}()
	kept.SetLogicalSize(geometry.Sz(1, 1))
}

func TestQueriesAndViews(t *testing.T) {
	d, _ := newTestDevice(t, Options[int]{}, led.KeyboardA, led.KeyboardB)

	v, ok := d.ViewAt(geometry.Pt(25, 5))
	if !ok || v.ID != "Keyboard_B" {
		t.Errorf("ViewAt() = %+v, %v", v, ok)
	}
	if got := d.ViewsOverlapping(geometry.Rect(0, 0, 40, 19), 0); len(got) != 2 {
		t.Errorf("ViewsOverlapping() = %d views, want 2", len(got))
	}

	state := d.State()
	if state.LedCount != 2 || state.Info.Type != TypeUnknown {
		t.Errorf("State() = %+v", state)
	}
}
