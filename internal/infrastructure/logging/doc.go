// Package logging builds the service's log/slog logger.
//
// Every entry carries service=rgbcore and the build version. Packages that
// run per device or per frame (device, host, sink, provider) declare their
// own small Logger interface and receive a Component child of this logger,
// so their entries also carry component=<name>.
//
//	logging:
//	  level: info      # debug, info, warn, error
//	  format: json     # json, text
//	  output: stdout   # stdout, stderr
//
// The level can be raised to debug while running (SetLevel, exposed as
// PUT /api/v1/logging/level) to trace LED batches without a restart.
//
// MQTT passwords and InfluxDB tokens must never be logged.
package logging
