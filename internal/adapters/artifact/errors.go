package artifact

import "errors"

// Sentinel error kinds for forest artifacts.
var (
	ErrFormat          = errors.New("unsupported artifact format")
	ErrInvalidArtifact = errors.New("invalid forest artifact")
	ErrFeatureMismatch = errors.New("feature columns do not match model")
)
