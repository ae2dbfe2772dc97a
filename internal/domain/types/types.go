// Package types contains common types used across the application
package types

// Prediction output columns, in the order the model emits them.
const (
	OutDirector       = "導播人數"
	OutCameraOperator = "攝影人數"
	OutAudio          = "音控人數"
	OutBroadcast      = "直播人數"
	OutRoving         = "機動人數"
	OutHighlights     = "花絮人數"
	OutVideoSwitch    = "視訊切換人數"
	OutVideoLink      = "視訊連線人數"
	OutTotal          = "人數"
)

// OutputColumns returns the nine prediction column names in model order.
// The last one is the headline total.
func OutputColumns() []string {
	return []string{
		OutDirector,
		OutCameraOperator,
		OutAudio,
		OutBroadcast,
		OutRoving,
		OutHighlights,
		OutVideoSwitch,
		OutVideoLink,
		OutTotal,
	}
}

// Output is a prediction table: one row per input row, same order.
type Output struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// Len returns the number of predicted rows.
func (o Output) Len() int {
	return len(o.Rows)
}

// Value returns the value of column in row i.
func (o Output) Value(i int, column string) (float64, bool) {
	if i < 0 || i >= len(o.Rows) {
		return 0, false
	}
	for j, c := range o.Columns {
		if c == column && j < len(o.Rows[i]) {
			return o.Rows[i][j], true
		}
	}
	return 0, false
}
