// Package led models individually addressable light elements and the
// per-device registry that owns them.
//
// # Key Types
//
//   - ID: a stable identifier for a LED's logical role ("Keyboard_Escape",
//     "LedStripe12"), partitioned into groups by device category
//   - Led: one light element with a rectangle, shape, colour and dirty flag
//   - Registry: identifier-keyed, insertion-ordered set of LEDs with point
//     and rectangle queries
//   - Snapshot: the finalized state of a LED handed to an update sink
//
// # Usage
//
//	reg := led.NewRegistry[int]()
//	l, err := reg.Insert(led.KeyboardEscape, geometry.Rect(0, 0, 19, 19), led.ShapeRectangle, "", 0)
//	if err != nil {
//	    return err
//	}
//	l.SetColor(color.NRGBA{R: 255, A: 255})
//
//	for l := range reg.FindOverlapping(geometry.Rect(0, 0, 5, 5), 0.5) {
//	    fmt.Println(l.ID())
//	}
//
// # Thread Safety
//
// Nothing in this package locks. A Registry and its LEDs belong to a single
// owner; see the device package for how that owner is arranged.
package led
