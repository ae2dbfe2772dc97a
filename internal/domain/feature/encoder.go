package feature

// Match tells how a categorical label was recognized.
type Match int

const (
	// Unmatched means the label is not one the field knows. It encodes to 0.
	Unmatched Match = iota
	// Negative means the label is the field's known "false" answer.
	Negative
	// Positive means the label is the field's known "true" answer.
	Positive
)

// String returns a lowercase name for logs and API payloads.
func (m Match) String() string {
	switch m {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "unmatched"
	}
}

// Code is the encoded value of one binary flag.
type Code struct {
	Value int
	Match Match
}

// flag describes one yes/no style question.
type flag struct {
	field    string
	column   string
	positive string
	negative string
}

var flags = []flag{
	{field: FieldIsHoliday, column: ColIsHoliday, positive: LabelHoliday, negative: LabelNotHoliday},
	{field: FieldHighlights, column: ColHighlights, positive: LabelYes, negative: LabelNo},
	{field: FieldVideoSwitch, column: ColVideoSwitch, positive: LabelYes, negative: LabelNo},
	{field: FieldVideoLink, column: ColVideoLink, positive: LabelYes, negative: LabelNo},
	{field: FieldPAControl, column: ColPAControl, positive: LabelYes, negative: LabelNo},
	{field: FieldMultiVenue, column: ColMultiVenue, positive: LabelWill, negative: LabelWillNot},
}

func lookupFlag(field string) (flag, bool) {
	for _, f := range flags {
		if f.field == field {
			return f, true
		}
	}
	return flag{}, false
}

// FlagFields returns the binary flag field names in form order.
func FlagFields() []string {
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.field
	}
	return out
}

// Choices returns the answer labels a form should offer for field, positive
// answer first. It returns nil for fields that are not categorical.
func Choices(field string) []string {
	if field == FieldProjectType {
		return ProjectTypes()
	}
	f, ok := lookupFlag(field)
	if !ok {
		return nil
	}
	return []string{f.positive, f.negative}
}

// DefaultChoice returns the label forms preselect for field.
func DefaultChoice(field string) string {
	if field == FieldProjectType {
		return TypeLive
	}
	if f, ok := lookupFlag(field); ok {
		return f.negative
	}
	return ""
}

// EncodeFlag maps a yes/no style label to 1 when it equals the field's
// positive label and 0 otherwise. Labels are compared literally. Unknown
// labels, unknown fields and the empty string all encode to 0 with
// Match == Unmatched; no error is raised.
func EncodeFlag(field, label string) Code {
	f, ok := lookupFlag(field)
	if !ok {
		return Code{Value: 0, Match: Unmatched}
	}
	switch label {
	case f.positive:
		return Code{Value: 1, Match: Positive}
	case f.negative:
		return Code{Value: 0, Match: Negative}
	default:
		return Code{Value: 0, Match: Unmatched}
	}
}

// OneHot is the three-column encoding of the project type.
type OneHot struct {
	Live      int
	OnSite    int
	Recording int
	Match     Match
}

// EncodeProjectType expands label into the live/on-site/recording columns.
// At most one column is 1. An unrecognized label leaves all three at 0.
func EncodeProjectType(label string) OneHot {
	var oh OneHot
	switch label {
	case TypeLive:
		oh.Live = 1
	case TypeOnSite:
		oh.OnSite = 1
	case TypeRecording:
		oh.Recording = 1
	default:
		return oh
	}
	oh.Match = Positive
	return oh
}
