package led

import "errors"

// Domain errors for the led package.
//
// These errors can be checked using errors.Is():
//
//	if _, err := reg.Insert(id, rect, led.ShapeRectangle, "", data); errors.Is(err, led.ErrDuplicateID) {
//	    // already initialised, leave the existing entry alone
//	}
var (
	// ErrInvalidID is returned when inserting the reserved Invalid identifier.
	ErrInvalidID = errors.New("led: invalid id")

	// ErrDuplicateID is returned when inserting an identifier that is already
	// present. The existing entry is left unchanged.
	ErrDuplicateID = errors.New("led: duplicate id")

	// ErrUnknownID is returned by Parse when a name does not map to an ID.
	ErrUnknownID = errors.New("led: unknown id")

	// ErrInvalidShape is returned by ParseShape for unrecognised shapes.
	ErrInvalidShape = errors.New("led: invalid shape")
)
