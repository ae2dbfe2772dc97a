package csvio

import "errors"

// ErrFile marks an imported file that cannot be parsed as tabular data.
var ErrFile = errors.New("file error")
