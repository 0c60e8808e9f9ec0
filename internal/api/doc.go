// Package api implements the HTTP REST API and the live LED frame feed of
// rgbcore.
//
// This package provides:
//   - REST endpoints to inspect devices, place them on the surface, and
//     read or stage LED colours
//   - Spatial queries: the LED at a point and the LEDs overlapping a
//     rectangle, both in the device's own coordinates
//   - Endpoints to trigger updates, for one device or all of them
//   - Management of the layout catalogue
//   - A WebSocket hub relaying LED frames to subscribed clients
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Frames
//
// The hub implements sink.Publisher. Wired into the device sinks, it
// receives the same frames as MQTT and relays each to the WebSocket
// clients subscribed to its topic (rgbcore/device/{id}/leds), or to "*".
//
// # Graceful Degradation
//
// The API works without MQTT, InfluxDB and the layout catalogue. Missing
// components are reported by the health endpoint; endpoints that need
// them return 503.
package api
