// Package geometry provides the value types that describe where LEDs and
// devices sit in space.
//
// Every type is an immutable value. Operations return new values and never
// modify their receiver, so values can be copied and compared freely.
//
// # Key Types
//
//   - Point: a location in device-local or surface coordinates
//   - Size: width and height, with InvalidSize meaning "not yet known"
//   - Scale: horizontal and vertical factors, defaulting to 1,1
//   - Rotation: an angle in degrees, defaulting to 0
//   - Rectangle: an axis-aligned rectangle (location plus size)
//
// # Overlap
//
// Rectangle.OverlapRatio is asymmetric. It reports how much of the receiver
// (the probe) falls on the other rectangle:
//
//	probe.OverlapRatio(ledRect) == probe.IntersectArea(ledRect) / probe.Area()
//
// A probe with zero area always has ratio 0.
package geometry
