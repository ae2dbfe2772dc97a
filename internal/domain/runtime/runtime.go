// Package runtime defines the model runtime boundary and the handle that
// tracks which runtime, if any, is currently loaded.
package runtime

import (
	"context"

	"github.com/okian/crewcast/internal/domain/feature"
)

// Runtime is a loaded, read-only prediction model. Implementations must be
// safe for concurrent Predict calls and must not mutate the table.
type Runtime interface {
	// Predict returns one output row per table row, in table order.
	// It fails when the table's columns do not match what the model expects.
	Predict(ctx context.Context, t *feature.Table) ([][]float64, error)

	// Kind names the runtime implementation, e.g. "forest" or "remote".
	Kind() string
}

// Loader opens a runtime from a source such as a file path or URL.
type Loader interface {
	Load(ctx context.Context, source string) (Runtime, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, source string) (Runtime, error)

// Load calls f(ctx, source).
func (f LoaderFunc) Load(ctx context.Context, source string) (Runtime, error) {
	return f(ctx, source)
}
