package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/present"
	"github.com/okian/crewcast/internal/domain/types"
)

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#1F3A5F")).Padding(0, 1)
	labelStyle         = lipgloss.NewStyle().Width(16)
	focusStyle         = lipgloss.NewStyle().Width(16).Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	choiceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	selectedStyle      = lipgloss.NewStyle().Bold(true)
	selectedFocusStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#4CAF50"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935"))
	headlineStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB300"))
	boxStyle           = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	tableBorderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// RenderManual renders the headline total and per position values of the
// first row of o.
func RenderManual(o types.Output) string {
	total, ok := present.Headline(o, 0)
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString("預計總人數：" + headlineStyle.Render(present.FormatHeadline(total)) + "\n")
	for _, p := range present.Positions(o, 0) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(p.Name), present.FormatValue(p.Value))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderPreview renders the input rows of f as a numbered table.
func RenderPreview(f feature.Frame) string {
	rows := make([][]string, len(f.Records))
	for i, rec := range f.Records {
		rows[i] = append([]string{strconv.Itoa(i + 1)}, rec...)
	}
	return hintStyle.Render("上傳資料預覽") + "\n" + table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(append([]string{"#"}, f.Header...)...).
		Rows(rows...).
		Render()
}

// RenderBatch renders the batch summary followed by a numbered results
// table. dropped lists the identifier columns that were ignored.
func RenderBatch(o types.Output, dropped []string) string {
	s := present.Summarize(o)
	summary := fmt.Sprintf("共 %d 筆，平均總人數 %s，最多 %s",
		s.Count, present.FormatValue(s.MeanTotal), present.FormatValue(s.MaxTotal))
	if len(dropped) > 0 {
		summary += "（已忽略欄位：" + strings.Join(dropped, "、") + "）"
	}

	rows := present.FormatRows(o)
	for i := range rows {
		rows[i] = append([]string{strconv.Itoa(i + 1)}, rows[i]...)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(append([]string{"#"}, o.Columns...)...).
		Rows(rows...)

	return summary + "\n" + t.Render()
}
