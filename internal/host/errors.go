package host

import "errors"

var (
	// ErrDeviceNotFound is returned when no device has the given ID.
	ErrDeviceNotFound = errors.New("host: device not found")

	// ErrDuplicateDevice is returned when adding a device whose ID is
	// already registered.
	ErrDuplicateDevice = errors.New("host: duplicate device")

	// ErrClosed is returned by operations on a closed host.
	ErrClosed = errors.New("host: closed")

	// ErrInvalidCommand is returned for an unparseable device command.
	ErrInvalidCommand = errors.New("host: invalid command")
)
