// Package config loads rgbcore's YAML configuration.
//
// Load applies built-in defaults, then the file, then RGBCORE_* environment
// variables, and finally validates the result, reporting every problem at
// once. Besides the infrastructure sections (database, mqtt, influxdb, api,
// websocket, logging) the file declares the update loop and the devices to
// build:
//
//	update:
//	  frame_rate: 30
//	  full_flush_interval: 5
//	devices:
//	  - name: Desk strip
//	    type: led_stripe
//	    zone: {name: Strip, led_count: 30}
//
// Credentials (MQTT password, InfluxDB token) belong in the environment,
// not in the file.
package config
