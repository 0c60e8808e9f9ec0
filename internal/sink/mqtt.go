package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roxaskeyheart/rgbnet-core/internal/led"
)

// Publisher sends a payload to a topic. It is satisfied by the MQTT client
// in internal/infrastructure/mqtt.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// DefaultTopicPrefix is the prefix of LED topics when none is configured.
const DefaultTopicPrefix = "rgbcore"

// LedTopic returns the topic a device's batches are published on:
// <prefix>/device/<device>/leds.
func LedTopic(prefix, deviceID string) string {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return strings.TrimSuffix(prefix, "/") + "/device/" + deviceID + "/leds"
}

// Frame is the JSON payload published for one batch.
type Frame[T any] struct {
	Device    string        `json:"device"`
	Full      bool          `json:"full"`
	Timestamp time.Time     `json:"ts"`
	Leds      []FrameLed[T] `json:"leds"`
}

// FrameLed is one LED of a Frame.
type FrameLed[T any] struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Data  T      `json:"data"`
}

// MQTT publishes every non-empty batch as a Frame.
type MQTT[T any] struct {
	pub      Publisher
	topic    string
	deviceID string
	qos      byte
	now      func() time.Time
}

// NewMQTT creates a sink publishing to LedTopic(prefix, deviceID).
func NewMQTT[T any](pub Publisher, prefix, deviceID string, qos byte) *MQTT[T] {
	return &MQTT[T]{
		pub:      pub,
		topic:    LedTopic(prefix, deviceID),
		deviceID: deviceID,
		qos:      qos,
		now:      time.Now,
	}
}

// Topic returns the topic the sink publishes on.
func (m *MQTT[T]) Topic() string {
	return m.topic
}

// Submit implements device.UpdateSink. Empty batches are not published.
func (m *MQTT[T]) Submit(ctx context.Context, batch []led.Snapshot[T], full bool) error {
	if len(batch) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	frame := Frame[T]{
		Device:    m.deviceID,
		Full:      full,
		Timestamp: m.now().UTC(),
		Leds:      make([]FrameLed[T], 0, len(batch)),
	}
	for _, s := range batch {
		frame.Leds = append(frame.Leds, FrameLed[T]{
			ID:    s.ID.String(),
			Color: led.FormatColor(s.Color),
			Data:  s.Data,
		})
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encoding led frame: %w", err)
	}
	if err := m.pub.Publish(m.topic, payload, m.qos, false); err != nil {
		return fmt.Errorf("publishing led frame: %w", err)
	}
	return nil
}

// Fanout publishes to every publisher in order. All publishers are tried;
// their errors are joined.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(topic string, payload []byte, qos byte, retained bool) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(topic, payload, qos, retained); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
