package layout

import "errors"

// Domain errors for the layout package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, layout.ErrMalformed) {
//	    // the document is unusable, nothing was applied
//	}
var (
	// ErrMalformed is returned when a layout document is structurally
	// invalid: unparsable dimensions, missing required fields, or bad
	// shape data.
	ErrMalformed = errors.New("layout: malformed")

	// ErrNotFound is returned when no layout exists for a device.
	ErrNotFound = errors.New("layout: not found")
)
