// Package openrgb builds devices from controllers reported by an OpenRGB
// SDK server.
//
// OpenRGB reports each controller as a flat list of named LEDs split into
// zones. Zones have no per-LED identifiers of their own, so every zone
// becomes one device whose LEDs are placed by the zone placement engine:
// names found in the lookup table (DefaultNames unless overridden) keep
// their identity, everything else gets the next free id of the device
// category. Each LED carries its absolute index in the controller's LED
// list, which the zone sink uses to address the controller.
//
// The SDK connection itself is external; this package only consumes it
// through the Writer interface and a shared io.Closer.
package openrgb
