package openrgb

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// ErrWriterRequired is returned when neither a Writer nor a Sink factory is set.
var ErrWriterRequired = errors.New("openrgb: writer or sink factory required")

// Options configure NewZoneDevices.
type Options struct {
	// Writer receives zone colour updates. Ignored when Sink is set.
	Writer Writer

	// Sink, when set, creates the sink of each zone device instead of
	// writing through Writer.
	Sink func(info device.Info) device.UpdateSink[int]

	// Names overrides DefaultNames.
	Names map[string]led.ID

	// Conn is closed once every device built from the controller has been
	// disposed. May be nil.
	Conn io.Closer

	Logger device.Logger
}

// NewZoneDevices builds one device per non-empty zone of c. LED custom data
// is the LED's absolute index in c.Leds.
func NewZoneDevices(c Controller, opts Options) ([]*device.Device[int], error) {
	if opts.Writer == nil && opts.Sink == nil {
		return nil, ErrWriterRequired
	}
	names := opts.Names
	if names == nil {
		names = DefaultNames
	}

	var zones []int
	for i, z := range c.Zones {
		if z.LedsCount > 0 {
			zones = append(zones, i)
		}
	}
	conn := newSharedConn(opts.Conn, len(zones))

	devices := make([]*device.Device[int], 0, len(zones))
	offset := 0
	for i, z := range c.Zones {
		start := offset
		offset += z.LedsCount
		if z.LedsCount <= 0 {
			continue
		}

		info := device.Info{
			Type:         c.Type,
			Manufacturer: c.Vendor,
			Model:        c.Name + " " + z.Name,
			Lighting:     device.LightingKey,
		}
		var s device.UpdateSink[int]
		if opts.Sink != nil {
			s = opts.Sink(info)
		} else {
			s = newZoneSink(opts.Writer, c.Index, i, start, z.LedsCount)
		}

		zone := device.Zone{
			Name:     z.Name,
			Kind:     z.kind(),
			LedCount: z.LedsCount,
			Matrix:   z.Matrix,
		}
		placement := device.ZonePlacement[int]{
			Offset:   start,
			Names:    c.names(start, z.LedsCount),
			Lookup:   names,
			Fallback: device.InitialLedID(c.Type),
			Data:     func(index int) int { return index },
		}

		dev, err := device.New(device.Options[int]{
			Info:   info,
			Sink:   s,
			Handle: conn,
			Logger: opts.Logger,
		}, func(b *device.Builder[int]) error {
			_, err := b.ApplyZone(zone, placement)
			return err
		})
		if err != nil {
			for _, d := range devices {
				d.Dispose()
			}
			if sc, ok := conn.(*sharedConn); ok {
				sc.abandon()
			}
			return nil, fmt.Errorf("zone %q of %q: %w", z.Name, c.Name, err)
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// zoneSink keeps the last colour of every LED of a zone so partial
// batches can be written as a complete zone update.
type zoneSink struct {
	writer     Writer
	controller int
	zone       int
	offset     int

	mu     sync.Mutex
	colors []color.NRGBA
}

func newZoneSink(w Writer, controller, zone, offset, count int) *zoneSink {
	return &zoneSink{
		writer:     w,
		controller: controller,
		zone:       zone,
		offset:     offset,
		colors:     make([]color.NRGBA, count),
	}
}

func (s *zoneSink) Submit(ctx context.Context, batch []led.Snapshot[int], _ bool) error {
	if len(batch) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, snap := range batch {
		i := snap.Data - s.offset
		if i < 0 || i >= len(s.colors) {
			continue
		}
		s.colors[i] = snap.Color
	}
	out := make([]color.NRGBA, len(s.colors))
	copy(out, s.colors)
	return s.writer.UpdateZoneLeds(ctx, s.controller, s.zone, out)
}

// sharedConn releases the underlying connection when its last holder
// releases it.
type sharedConn struct {
	mu    sync.Mutex
	c     io.Closer
	holds int
}

func newSharedConn(c io.Closer, holders int) device.Handle {
	if c == nil {
		return nil
	}
	return &sharedConn{c: c, holds: holders}
}

func (s *sharedConn) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holds <= 0 {
		return nil
	}
	s.holds--
	if s.holds == 0 {
		return s.c.Close()
	}
	return nil
}

// abandon closes the connection on behalf of holders that were never
// created.
func (s *sharedConn) abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holds > 0 {
		s.holds = 0
		_ = s.c.Close()
	}
}
