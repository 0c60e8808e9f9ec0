package provider

import "errors"

var (
	// ErrAlreadyInitialized is returned by a second Initialize call.
	ErrAlreadyInitialized = errors.New("provider: already initialized")

	// ErrInvalidDevice is returned for a device declaration that cannot be
	// built.
	ErrInvalidDevice = errors.New("provider: invalid device declaration")
)
