package engine

import "errors"

var (
	// ErrInvalidConfiguration is returned when a Config fails validation.
	// Engine state is left untouched.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUninitialized is returned when the engine is stepped or inspected
	// before it has been configured and initialized.
	ErrUninitialized = errors.New("engine not initialized")
)
