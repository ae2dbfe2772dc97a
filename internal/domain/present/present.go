// Package present formats prediction output for people.
package present

import (
	"fmt"
	"time"

	"github.com/okian/crewcast/internal/domain/types"
)

// exportLayout is the timestamp layout used in export file names.
const exportLayout = "20060102_150405"

// FormatValue renders a predicted head-count with two decimals.
func FormatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatHeadline renders the headline total, e.g. "7.3 人".
func FormatHeadline(v float64) string {
	return fmt.Sprintf("%.1f 人", v)
}

// Headline returns the total head-count of row i.
func Headline(o types.Output, i int) (float64, bool) {
	return o.Value(i, types.OutTotal)
}

// Position is one staffing role and its predicted head-count.
type Position struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Positions returns the per-role breakdown of row i, excluding the total.
func Positions(o types.Output, i int) []Position {
	if i < 0 || i >= len(o.Rows) {
		return nil
	}
	var out []Position
	for j, c := range o.Columns {
		if c == types.OutTotal || j >= len(o.Rows[i]) {
			continue
		}
		out = append(out, Position{Name: c, Value: o.Rows[i][j]})
	}
	return out
}

// Summary holds batch statistics over the total column.
type Summary struct {
	Count     int     `json:"count"`
	MeanTotal float64 `json:"mean_total"`
	MaxTotal  float64 `json:"max_total"`
}

// Summarize computes the batch statistics. An empty output yields zeros.
func Summarize(o types.Output) Summary {
	s := Summary{Count: o.Len()}
	if s.Count == 0 {
		return s
	}
	var sum float64
	for i := range o.Rows {
		v, _ := o.Value(i, types.OutTotal)
		sum += v
		if i == 0 || v > s.MaxTotal {
			s.MaxTotal = v
		}
	}
	s.MeanTotal = sum / float64(s.Count)
	return s
}

// FormatRows renders every value with two decimals.
func FormatRows(o types.Output) [][]string {
	out := make([][]string, len(o.Rows))
	for i, row := range o.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		out[i] = rec
	}
	return out
}

// ExportFileName returns the download name for results produced at t.
func ExportFileName(t time.Time) string {
	return "prediction_results_" + t.Format(exportLayout) + ".csv"
}
