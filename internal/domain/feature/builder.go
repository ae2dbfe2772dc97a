package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawInput carries one project's answers as collected from a form. Numeric
// answers stay as text so the builder owns parsing and error reporting.
type RawInput struct {
	Month       string `json:"month"`
	Day         string `json:"day"`
	Weekday     string `json:"weekday"`
	IsHoliday   string `json:"is_holiday"`
	Duration    string `json:"duration_hours"`
	CameraCount string `json:"camera_count"`
	Highlights  string `json:"highlights"`
	VideoSwitch string `json:"video_switch"`
	VideoLink   string `json:"video_link"`
	PAControl   string `json:"pa_control"`
	MultiVenue  string `json:"multi_venue"`
	ProjectType string `json:"project_type"`
}

// Label returns the categorical answer stored for field.
func (in RawInput) Label(field string) string {
	switch field {
	case FieldIsHoliday:
		return in.IsHoliday
	case FieldHighlights:
		return in.Highlights
	case FieldVideoSwitch:
		return in.VideoSwitch
	case FieldVideoLink:
		return in.VideoLink
	case FieldPAControl:
		return in.PAControl
	case FieldMultiVenue:
		return in.MultiVenue
	case FieldProjectType:
		return in.ProjectType
	}
	return ""
}

// Row is one encoded feature row in model column order.
type Row struct {
	values    []float64
	unmatched []string
}

// Values returns a copy of the encoded values in Columns() order.
func (r Row) Values() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	return out
}

// Get returns the value stored under column.
func (r Row) Get(column string) (float64, bool) {
	for i, c := range columns {
		if c == column && i < len(r.values) {
			return r.values[i], true
		}
	}
	return 0, false
}

// Unmatched lists the categorical fields whose labels were not recognized and
// therefore encoded to 0.
func (r Row) Unmatched() []string {
	out := make([]string, len(r.unmatched))
	copy(out, r.unmatched)
	return out
}

// Builder assembles feature rows from raw form answers.
type Builder struct {
	strict      bool
	rangeChecks bool
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithStrictLabels rejects unrecognized categorical labels instead of
// encoding them as 0.
func WithStrictLabels(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// WithRangeChecks toggles the form widget bounds (month 1-12, day 1-31, ...).
func WithRangeChecks(enabled bool) Option {
	return func(b *Builder) {
		b.rangeChecks = enabled
	}
}

// NewBuilder creates a permissive builder with range checks enabled.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{rangeChecks: true}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build encodes one manual submission. Missing, non-numeric or out of range
// numeric answers fail with ErrInput; the message lists every bad field.
func (b *Builder) Build(in RawInput) (Row, error) {
	var problems []string

	month := parseWhole(FieldMonth, in.Month, &problems)
	day := parseWhole(FieldDay, in.Day, &problems)
	weekday := parseWhole(FieldWeekday, in.Weekday, &problems)
	duration := parseReal(FieldDuration, in.Duration, &problems)
	cameras := parseWhole(FieldCameraCount, in.CameraCount, &problems)

	if len(problems) == 0 && b.rangeChecks {
		problems = append(problems, checkRanges(numericInput{
			Month:       month,
			Day:         day,
			Weekday:     weekday,
			Duration:    duration,
			CameraCount: cameras,
		})...)
	}

	codes := make(map[string]Code, len(flags))
	var unmatched []string
	for _, f := range flags {
		c := EncodeFlag(f.field, in.Label(f.field))
		codes[f.field] = c
		if c.Match == Unmatched {
			unmatched = append(unmatched, f.field)
		}
	}
	pt := EncodeProjectType(in.ProjectType)
	if pt.Match == Unmatched {
		unmatched = append(unmatched, FieldProjectType)
	}

	if b.strict {
		for _, field := range unmatched {
			problems = append(problems, fmt.Sprintf("%s: unrecognized label %q", field, in.Label(field)))
		}
	}
	if len(problems) > 0 {
		return Row{}, fmt.Errorf("%w: %s", ErrInput, strings.Join(problems, "; "))
	}

	values := []float64{
		float64(month),
		float64(day),
		float64(weekday),
		float64(codes[FieldIsHoliday].Value),
		duration,
		float64(cameras),
		float64(codes[FieldHighlights].Value),
		float64(codes[FieldVideoSwitch].Value),
		float64(codes[FieldVideoLink].Value),
		float64(codes[FieldPAControl].Value),
		float64(codes[FieldMultiVenue].Value),
		float64(pt.Live),
		float64(pt.OnSite),
		float64(pt.Recording),
	}
	return Row{values: values, unmatched: unmatched}, nil
}

// maxWhole is the largest magnitude a float64 holds as an exact integer.
const maxWhole = 1 << 53

func parseWhole(field, raw string, problems *[]string) int {
	v, ok := parseNumber(field, raw, problems)
	if !ok {
		return 0
	}
	if v != math.Trunc(v) {
		*problems = append(*problems, fmt.Sprintf("%s: %q is not a whole number", field, raw))
		return 0
	}
	if math.Abs(v) > maxWhole {
		*problems = append(*problems, fmt.Sprintf("%s: %q is out of range", field, raw))
		return 0
	}
	return int(v)
}

func parseReal(field, raw string, problems *[]string) float64 {
	v, _ := parseNumber(field, raw, problems)
	return v
}

func parseNumber(field, raw string, problems *[]string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		*problems = append(*problems, field+": required")
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*problems = append(*problems, fmt.Sprintf("%s: %q is not a number", field, raw))
		return 0, false
	}
	return v, true
}
