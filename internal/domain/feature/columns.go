// Package feature turns collected project attributes into the fixed-order
// feature table the staffing model was trained on.
//
// Both front-ends (web form and terminal form) go through this package, so the
// encoding contract lives in exactly one place.
package feature

// Feature column names, in the order the model expects them.
const (
	ColMonth         = "月"
	ColDay           = "日"
	ColWeekday       = "星期"
	ColIsHoliday     = "是否假日"
	ColDuration      = "時長"
	ColCameraCount   = "機位數量"
	ColHighlights    = "花絮"
	ColVideoSwitch   = "視訊切換"
	ColVideoLink     = "視訊連線"
	ColPAControl     = "PA音控"
	ColMultiVenue    = "大場分小場"
	ColTypeLive      = "工作性質_直播"
	ColTypeOnSite    = "工作性質_進場"
	ColTypeRecording = "工作性質_錄製"
)

// Identifier columns found in imported project sheets. They are not features.
const (
	ColProjectName = "專案"
	ColDateLabel   = "日期"
)

// Logical input field names used by collectors and error messages.
const (
	FieldMonth       = "month"
	FieldDay         = "day"
	FieldWeekday     = "weekday"
	FieldIsHoliday   = "is_holiday"
	FieldDuration    = "duration_hours"
	FieldCameraCount = "camera_count"
	FieldHighlights  = "highlights"
	FieldVideoSwitch = "video_switch"
	FieldVideoLink   = "video_link"
	FieldPAControl   = "pa_control"
	FieldMultiVenue  = "multi_venue"
	FieldProjectType = "project_type"
)

// Answer labels offered by the forms.
const (
	LabelHoliday    = "是"
	LabelNotHoliday = "不是"
	LabelYes        = "有"
	LabelNo         = "沒有"
	LabelWill       = "會"
	LabelWillNot    = "不會"

	TypeOnSite    = "進場"
	TypeLive      = "直播"
	TypeRecording = "錄製"
)

// columns is the fixed feature order. Use Columns for a copy.
var columns = []string{
	ColMonth,
	ColDay,
	ColWeekday,
	ColIsHoliday,
	ColDuration,
	ColCameraCount,
	ColHighlights,
	ColVideoSwitch,
	ColVideoLink,
	ColPAControl,
	ColMultiVenue,
	ColTypeLive,
	ColTypeOnSite,
	ColTypeRecording,
}

var identifierColumns = []string{ColProjectName, ColDateLabel}

// Columns returns the feature column names in model order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// IdentifierColumns returns the non-feature columns dropped from imported files.
func IdentifierColumns() []string {
	out := make([]string, len(identifierColumns))
	copy(out, identifierColumns)
	return out
}

// ProjectTypes lists the known project type labels in form order.
func ProjectTypes() []string {
	return []string{TypeOnSite, TypeLive, TypeRecording}
}
