// Package provider turns device declarations into live devices.
//
// A Provider discovers or constructs devices and hands them to the host as
// Entries: a stable instance ID plus the type-erased device.Controller.
// The ID is assigned before the device is built so that its update sink
// (an MQTT topic, a metrics tag) can be keyed by it.
//
// Config is the only provider today. It builds devices declared in the
// devices section of config.yaml:
//
//	virtual  zone, layout file, or layout looked up by manufacturer/model
//	openrgb  one device per zone of a described OpenRGB controller
//	wooting  a Wooting keyboard matrix
//
// Every device it builds sends its updates through the same Outputs:
// an MQTT publisher when configured (otherwise they are discarded),
// wrapped in metrics instrumentation when a metrics writer is set.
package provider
