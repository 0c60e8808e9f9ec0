package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is():
//
//	if _, err := dev.Update(ctx, false); errors.Is(err, device.ErrSubmit) {
//	    // the sink rejected the batch; LEDs are already finalized
//	}
var (
	// ErrSinkRequired is returned by New when no update sink is supplied.
	ErrSinkRequired = errors.New("device: update sink required")

	// ErrDisposed is returned when updating a device after Dispose.
	ErrDisposed = errors.New("device: disposed")

	// ErrLedNotFound is returned when addressing a LED the device does not have.
	ErrLedNotFound = errors.New("device: led not found")

	// ErrPreUpdate wraps a failure of the pre-update hook. No LED was
	// finalized.
	ErrPreUpdate = errors.New("device: pre-update hook failed")

	// ErrSubmit wraps a failure reported by the update sink.
	ErrSubmit = errors.New("device: update sink failed")

	// ErrIDSpaceExhausted is returned by zone placement when every fallback
	// identifier in the group is already taken.
	ErrIDSpaceExhausted = errors.New("device: led id space exhausted")

	// ErrInvalidZone is returned when a zone description is inconsistent.
	ErrInvalidZone = errors.New("device: invalid zone")

	// ErrInvalidType is returned when a device type is not recognised.
	ErrInvalidType = errors.New("device: invalid type")

	// ErrInvalidLighting is returned when a lighting capability is not recognised.
	ErrInvalidLighting = errors.New("device: invalid lighting")
)
