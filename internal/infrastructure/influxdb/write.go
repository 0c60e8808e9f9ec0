package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	// UpdateMeasurement holds one point per device update batch.
	UpdateMeasurement = "led_updates"

	// FrameMeasurement holds one point per pass of the host frame loop.
	FrameMeasurement = "frames"
)

// WriteUpdateMetrics records one device update. It satisfies
// sink.MetricsWriter.
//
// Tags: device_id, full, failed. Fields: leds, duration_us.
func (c *Client) WriteUpdateMetrics(deviceID string, leds int, full bool, duration time.Duration, failed bool) {
	c.WritePoint(UpdateMeasurement,
		map[string]string{
			"device_id": deviceID,
			"full":      strconv.FormatBool(full),
			"failed":    strconv.FormatBool(failed),
		},
		map[string]any{
			"leds":        leds,
			"duration_us": duration.Microseconds(),
		},
		time.Now())
}

// WriteFrameMetrics records one frame of the update loop. It satisfies
// host.FrameMetrics.
//
// Tags: full. Fields: devices, leds, failures, duration_us.
func (c *Client) WriteFrameMetrics(devices, leds int, full bool, duration time.Duration, failures int) {
	c.WritePoint(FrameMeasurement,
		map[string]string{"full": strconv.FormatBool(full)},
		map[string]any{
			"devices":     devices,
			"leds":        leds,
			"failures":    failures,
			"duration_us": duration.Microseconds(),
		},
		time.Now())
}

// WritePoint writes a point with the given timestamp. Points written after
// Close are dropped.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	if !c.IsConnected() {
		return
	}
	c.points.WritePoint(write.NewPoint(measurement, tags, fields, ts))
}
