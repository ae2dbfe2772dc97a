package runtime

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnloaded   = errors.New("no model loaded")
	ErrLoad       = errors.New("load model failed")
	ErrNoSource   = errors.New("model source is empty")
	ErrNilRuntime = errors.New("loader returned no runtime")
)
