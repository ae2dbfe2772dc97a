package feature

import "errors"

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	// ErrInput marks a manual submission with a missing or malformed field.
	ErrInput = errors.New("input error")

	// ErrTable marks a feature table whose cells cannot be read as numbers.
	ErrTable = errors.New("invalid feature table")
)
