// Package sink provides update sinks: the collaborators that receive the
// finalized LED batches produced by device.Device.Update.
//
// # Key Types
//
//   - Func: adapts a function to device.UpdateSink
//   - Discard: accepts and drops every batch
//   - Recorder: keeps every batch in memory
//   - MQTT: publishes batches as JSON to a per-device topic
//   - Instrumented: records batch size, latency and failures as metrics
//
// Sinks are generic over the LED custom data type so that a device's
// vendor addressing travels with each snapshot.
package sink
