package loader

import "errors"

var (
	// ErrMissingBootstrapFile is returned when the bootstrap entry point cannot be located.
	ErrMissingBootstrapFile = errors.New("bootstrap file not found")
	// ErrInvalidTablePrefix is returned when the table prefix contains characters other than letters, digits and underscores.
	ErrInvalidTablePrefix = errors.New("table prefix must contain only letters, digits and underscores")
	// ErrBootstrapped is returned when the table prefix is changed after the bootstrap entry point was invoked.
	ErrBootstrapped = errors.New("site already handed to bootstrap")
)
