// Package device presents a physical lighting device as a uniform set of
// LEDs with spatial coordinates.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                             Device[T]                             │
//	│                                                                   │
//	│  location, logical size, scale, rotation                          │
//	│        │                                                          │
//	│        ▼                                                          │
//	│  actual size, bounding rectangle (recomputed on every change)     │
//	│                                                                   │
//	│  ┌──────────────────┐   ┌──────────────────┐   ┌──────────────┐   │
//	│  │  led.Registry[T] │◀──│ Builder (setup)  │──▶│ layout / zone│   │
//	│  │                  │   │ SetLogicalSize   │   │  placement   │   │
//	│  └────────┬─────────┘   └──────────────────┘   └──────────────┘   │
//	│           │ Update: pre-update hook, dirty set, finalize          │
//	└───────────│───────────────────────────────────────────────────────┘
//	            ▼
//	   UpdateSink[T].Submit(batch, full)
//
// # Key Types
//
//   - Device: geometry, LED registry and update pipeline
//   - Builder: construction-time operations (logical size, LED creation,
//     layout and zone placement)
//   - Hooks: pre-update, teardown and custom-data callbacks
//   - Handle: a vendor resource released exactly once on Dispose
//   - UpdateSink: receives finalized LED batches
//   - Controller: the type-erased device interface
//
// # Usage
//
//	dev, err := device.New(device.Options[int]{
//	    Info: device.Info{Type: device.TypeLedStripe, Manufacturer: "Acme", Model: "Strip"},
//	    Sink: sink,
//	}, func(b *device.Builder[int]) error {
//	    _, err := b.ApplyZone(device.Zone{Kind: device.ZoneLinear, LedCount: 30},
//	        device.ZonePlacement[int]{
//	            Fallback: device.InitialLedID(device.TypeLedStripe),
//	            Data:     func(i int) int { return i },
//	        })
//	    return err
//	})
//	if err != nil {
//	    return err
//	}
//	defer dev.Dispose()
//
//	dev.Fill(color.NRGBA{R: 255, A: 255})
//	if _, err := dev.Update(ctx, false); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// A Device does not lock. All mutations, Update and Dispose must come from
// one owner at a time; independent devices may be updated concurrently.
// The host package provides that ownership.
package device
