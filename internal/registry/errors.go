package registry

import "errors"

var (
	// ErrInvalidName is returned when an entry name is not a valid constant identifier.
	ErrInvalidName = errors.New("entry name must match [A-Za-z_][A-Za-z0-9_]*")
	// ErrInvalidValue is returned when a zero Value is defined.
	ErrInvalidValue = errors.New("entry value must be a string, boolean or integer")
	// ErrUnsupportedValue is returned when a raw value cannot be represented as an entry.
	ErrUnsupportedValue = errors.New("unsupported entry value")
)
