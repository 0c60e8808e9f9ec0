package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/roxaskeyheart/rgbnet-core/internal/device"
	"github.com/roxaskeyheart/rgbnet-core/internal/sink"
)

// Provider is a source of devices.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Initialize builds or discovers the provider's devices. Devices that
	// could be built stay available even when an error is returned.
	Initialize(ctx context.Context) error

	// Initialized reports whether Initialize has run.
	Initialized() bool

	// Devices returns the devices built by Initialize.
	Devices() []Entry

	// Close disposes every device the provider built.
	Close() error
}

// Entry is one device built by a provider.
type Entry struct {
	ID         uuid.UUID
	Name       string
	Controller device.Controller
}

// Logger is the logging interface used by providers.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Outputs are the destinations of device updates.
type Outputs struct {
	// Publisher, when set, receives every batch as an MQTT frame.
	Publisher   sink.Publisher
	TopicPrefix string
	QoS         byte

	// Metrics, when set, records every submit.
	Metrics sink.MetricsWriter
}

// sinkFor builds the update sink of the device with the given ID.
func sinkFor[T any](o Outputs, id uuid.UUID) device.UpdateSink[T] {
	var s device.UpdateSink[T] = sink.Discard[T]{}
	if o.Publisher != nil {
		s = sink.NewMQTT[T](o.Publisher, o.TopicPrefix, id.String(), o.QoS)
	}
	return sink.NewInstrumented(s, o.Metrics, id.String())
}
