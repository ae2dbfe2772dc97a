package predict

import "errors"

// ErrModel marks a prediction the runtime could not serve: no model loaded,
// or the runtime rejected the feature table.
var ErrModel = errors.New("model error")
