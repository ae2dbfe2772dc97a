// Package predict hands feature tables to the loaded model runtime.
package predict

import (
	"context"
	"fmt"

	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/runtime"
	"github.com/okian/crewcast/internal/domain/types"
)

// Invoker delegates predictions to whatever runtime its handle holds.
// It adds no retries, timeouts or caching, and never mutates the table.
type Invoker struct {
	handle *runtime.Handle
}

// NewInvoker creates an invoker reading from h.
func NewInvoker(h *runtime.Handle) *Invoker {
	return &Invoker{handle: h}
}

// Predict runs the whole table through the runtime in one call. Any failure,
// including an unloaded handle or a runtime that rejects the table, is
// returned as ErrModel and aborts the whole table.
func (i *Invoker) Predict(ctx context.Context, t *feature.Table) (types.Output, error) {
	rt, err := i.handle.Current()
	if err != nil {
		return types.Output{}, fmt.Errorf("%w: %w", ErrModel, err)
	}
	if t == nil {
		return types.Output{}, fmt.Errorf("%w: nil feature table", ErrModel)
	}

	rows, err := rt.Predict(ctx, t)
	if err != nil {
		return types.Output{}, fmt.Errorf("%w: %w", ErrModel, err)
	}

	cols := types.OutputColumns()
	if len(rows) != t.Len() {
		return types.Output{}, fmt.Errorf("%w: runtime returned %d rows for %d inputs", ErrModel, len(rows), t.Len())
	}
	for r, row := range rows {
		if len(row) != len(cols) {
			return types.Output{}, fmt.Errorf("%w: row %d has %d outputs, want %d", ErrModel, r+1, len(row), len(cols))
		}
	}
	return types.Output{Columns: cols, Rows: rows}, nil
}
