// Package influxdb records device update metrics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library and writes two
// measurements:
//
//   - led_updates: one point per device batch passing through
//     sink.Instrumented (batch size, full flush, sink failure, submit time)
//   - frames: one point per pass of the host frame loop (devices, LEDs
//     sent, failed devices, frame time)
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	s := sink.NewInstrumented(next, client, deviceID)
//	h.SetFrameMetrics(client)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched according to batch_size and flush_interval; asynchronous write
// errors are delivered to the SetOnError callback.
package influxdb
