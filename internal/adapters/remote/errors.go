package remote

import "errors"

// Sentinel error kinds for the remote runtime.
var (
	ErrEndpoint    = errors.New("invalid model endpoint")
	ErrUnavailable = errors.New("model endpoint unavailable")
	ErrRejected    = errors.New("model endpoint rejected request")
)
