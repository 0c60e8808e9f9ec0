package sink

import (
	"context"
	"slices"
	"sync"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Func adapts an ordinary function to device.UpdateSink.
type Func[T any] func(ctx context.Context, batch []led.Snapshot[T], full bool) error

// Submit implements device.UpdateSink.
func (f Func[T]) Submit(ctx context.Context, batch []led.Snapshot[T], full bool) error {
	return f(ctx, batch, full)
}

// Discard drops every batch.
type Discard[T any] struct{}

// Submit implements device.UpdateSink.
func (Discard[T]) Submit(context.Context, []led.Snapshot[T], bool) error {
	return nil
}

// Batch is one recorded submission.
type Batch[T any] struct {
	Leds []led.Snapshot[T]
	Full bool
}

// Recorder keeps every submitted batch. It is safe for concurrent use.
type Recorder[T any] struct {
	mu      sync.Mutex
	batches []Batch[T]
	err     error
}

// Submit implements device.UpdateSink.
func (r *Recorder[T]) Submit(_ context.Context, batch []led.Snapshot[T], full bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, Batch[T]{Leds: slices.Clone(batch), Full: full})
	return r.err
}

// FailWith makes subsequent submissions return err (after recording).
func (r *Recorder[T]) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Batches returns a copy of the recorded batches.
func (r *Recorder[T]) Batches() []Batch[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.batches)
}

// Last returns the most recent batch.
func (r *Recorder[T]) Last() (Batch[T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return Batch[T]{}, false
	}
	return r.batches[len(r.batches)-1], true
}

var (
	_ device.UpdateSink[int] = Func[int](nil)
	_ device.UpdateSink[int] = Discard[int]{}
	_ device.UpdateSink[int] = (*Recorder[int])(nil)
)
