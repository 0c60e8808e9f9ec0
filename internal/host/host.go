package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/provider"
)

// Logger defines the logging interface used by the host.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// FrameMetrics records one pass of the update loop. It is satisfied by the
// InfluxDB client.
type FrameMetrics interface {
	WriteFrameMetrics(devices, leds int, full bool, duration time.Duration, failures int)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Summary describes one registered device.
type Summary struct {
	ID    uuid.UUID    `json:"id"`
	Name  string       `json:"name"`
	State device.State `json:"state"`
}

type slot struct {
	mu   sync.Mutex
	id   uuid.UUID
	name string
	ctrl device.Controller
}

// Host is the set of running devices.
//
// Thread Safety: all methods are safe for concurrent use.
type Host struct {
	logger  Logger
	metrics FrameMetrics

	// concurrency bounds parallel device updates; 0 means one goroutine
	// per device.
	concurrency int

	mu      sync.RWMutex
	slots   map[uuid.UUID]*slot
	order   []uuid.UUID
	closed  bool
	frame   uint64
	running bool
}

// New creates an empty host.
func New(logger Logger) *Host {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Host{
		logger: logger,
		slots:  make(map[uuid.UUID]*slot),
	}
}

// SetFrameMetrics installs the recorder used by Run. Call it before Run.
func (h *Host) SetFrameMetrics(m FrameMetrics) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.metrics = m
}

// SetConcurrency bounds how many devices are updated at once. n <= 0
// removes the bound.
func (h *Host) SetConcurrency(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.concurrency = max(n, 0)
}

// Add registers provider entries. Entries are added in order; the first
// duplicate ID stops the registration and is reported.
func (h *Host) Add(entries ...provider.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	for _, e := range entries {
		if _, exists := h.slots[e.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateDevice, e.ID)
		}
		h.slots[e.ID] = &slot{id: e.ID, name: e.Name, ctrl: e.Controller}
		h.order = append(h.order, e.ID)
	}
	return nil
}

// Len returns the number of registered devices.
func (h *Host) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

// Do runs fn with exclusive access to the device with the given ID.
func (h *Host) Do(id uuid.UUID, fn func(device.Controller) error) error {
	s, err := h.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ctrl)
}

// Get returns the summary of one device.
func (h *Host) Get(id uuid.UUID) (Summary, error) {
	s, err := h.lookup(id)
	if err != nil {
		return Summary{}, err
	}
	return s.summary(), nil
}

// List returns the summaries of all devices in registration order.
func (h *Host) List() []Summary {
	h.mu.RLock()
	slots := make([]*slot, 0, len(h.order))
	for _, id := range h.order {
		slots = append(slots, h.slots[id])
	}
	h.mu.RUnlock()

	out := make([]Summary, len(slots))
	for i, s := range slots {
		out[i] = s.summary()
	}
	return out
}

// UpdateAll updates every device concurrently and returns the total number
// of LEDs sent. A failing device does not stop the others; all failures
// are returned joined. When ctx is cancelled mid-pass, devices not yet
// started are skipped and ctx.Err() is returned with the partial count.
func (h *Host) UpdateAll(ctx context.Context, flush bool) (int, error) {
	total, errs, err := h.updateAll(ctx, flush)
	if err != nil {
		return total, err
	}
	return total, errors.Join(errs...)
}

// updateAll returns the LED count, the per-device failures and an error
// that ended the pass early (ErrClosed or a context error).
func (h *Host) updateAll(ctx context.Context, flush bool) (int, []error, error) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return 0, nil, ErrClosed
	}
	slots := make([]*slot, 0, len(h.order))
	for _, id := range h.order {
		slots = append(slots, h.slots[id])
	}
	limit := h.concurrency
	h.mu.RUnlock()

	counts := make([]int, len(slots))
	failures := make([]error, len(slots))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, s := range slots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.mu.Lock()
			n, err := s.ctrl.Update(ctx, flush)
			s.mu.Unlock()

			counts[i] = n
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		})
	}
	aborted := g.Wait()

	total := 0
	var errs []error
	for i := range slots {
		total += counts[i]
		if failures[i] != nil {
			errs = append(errs, failures[i])
		}
	}
	return total, errs, aborted
}

// Run updates all devices every interval until ctx is cancelled. When
// fullFlushEvery is positive every fullFlushEvery-th frame is a full
// flush. Update failures are logged and the loop continues.
func (h *Host) Run(ctx context.Context, interval time.Duration, fullFlushEvery int) error {
	if interval <= 0 {
		return fmt.Errorf("host: invalid frame interval %v", interval)
	}
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return errors.New("host: already running")
	}
	h.running = true
	metrics := h.metrics
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.logger.Info("update loop started",
		"interval", interval,
		"full_flush_every", fullFlushEvery,
		"devices", h.Len(),
	)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("update loop stopped")
			return nil
		case <-ticker.C:
			flush := h.nextFrame(fullFlushEvery)
			start := time.Now()
			leds, errs, err := h.updateAll(ctx, flush)
			if errors.Is(err, ErrClosed) {
				return nil
			}
			if err != nil {
				continue // cancelled mid-frame
			}
			if metrics != nil {
				metrics.WriteFrameMetrics(h.Len(), leds, flush, time.Since(start), len(errs))
			}
			if len(errs) > 0 && ctx.Err() == nil {
				h.logger.Warn("device update failed", "failures", len(errs), "error", errors.Join(errs...))
			}
		}
	}
}

func (h *Host) nextFrame(fullFlushEvery int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame++
	return fullFlushEvery > 0 && h.frame%uint64(fullFlushEvery) == 0
}

// Close disposes every device. Further calls are no-ops.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	slots := make([]*slot, 0, len(h.order))
	for _, id := range h.order {
		slots = append(slots, h.slots[id])
	}
	h.mu.Unlock()

	for _, s := range slots {
		s.mu.Lock()
		s.ctrl.Dispose()
		s.mu.Unlock()
	}
	h.logger.Info("devices disposed", "count", len(slots))
}

func (h *Host) lookup(id uuid.UUID) (*slot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrClosed
	}
	s, ok := h.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	return s, nil
}

func (s *slot) summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{ID: s.id, Name: s.name, State: s.ctrl.State()}
}
