// Package host owns the running devices and drives their update cycle.
//
// Devices are registered from providers and addressed by their instance
// ID. Every device carries its own lock: callers mutate a device only
// through Do, which serialises access with the update loop.
//
// Run ticks at the configured frame rate and updates every device
// concurrently. Every Nth frame, when configured, is a full flush that
// resends every LED regardless of dirty state.
//
// Commands arriving on <prefix>/device/<id>/set are applied by
// HandleCommand, which is shaped to be registered as an MQTT handler:
//
//	{"led": "Keyboard_Escape", "color": "#ff0000"}
//	{"fill": "#000000"}
//
// Commands only stage colours; the next frame sends them.
package host
