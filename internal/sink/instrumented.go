package sink

import (
	"context"
	"time"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// MetricsWriter records per-batch update metrics. It is satisfied by the
// InfluxDB client in internal/infrastructure/influxdb.
type MetricsWriter interface {
	WriteUpdateMetrics(deviceID string, leds int, full bool, duration time.Duration, failed bool)
}

// Instrumented wraps a sink and records one metric point per batch.
type Instrumented[T any] struct {
	next     device.UpdateSink[T]
	metrics  MetricsWriter
	deviceID string
}

// NewInstrumented wraps next. A nil metrics writer returns next unchanged.
func NewInstrumented[T any](next device.UpdateSink[T], metrics MetricsWriter, deviceID string) device.UpdateSink[T] {
	if metrics == nil {
		return next
	}
	return &Instrumented[T]{next: next, metrics: metrics, deviceID: deviceID}
}

// Submit implements device.UpdateSink.
func (s *Instrumented[T]) Submit(ctx context.Context, batch []led.Snapshot[T], full bool) error {
	start := time.Now()
	err := s.next.Submit(ctx, batch, full)
	s.metrics.WriteUpdateMetrics(s.deviceID, len(batch), full, time.Since(start), err != nil)
	return err
}
