// Package tui is the terminal front-end: an interactive form for one
// production and table rendering for batch results.
//
// The form follows bubbletea's model/update/view loop. Numeric answers are
// typed into text inputs; categorical answers cycle with left and right.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	service "github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/domain/feature"
)

// Predictor runs one manual prediction.
type Predictor interface {
	PredictManual(ctx context.Context, in feature.RawInput) (service.ManualResult, error)
}

// formField is one question on the form: either a text input or a choice.
type formField struct {
	name    string
	label   string
	input   textinput.Model
	choices []string
	choice  int
}

func (f *formField) isChoice() bool { return len(f.choices) > 0 }

func (f *formField) value() string {
	if f.isChoice() {
		return f.choices[f.choice]
	}
	return strings.TrimSpace(f.input.Value())
}

type predictionMsg struct {
	result service.ManualResult
	err    error
}

// Form is the bubbletea model of the manual prediction form.
type Form struct {
	ctx       context.Context
	predictor Predictor
	fields    []formField
	focus     int

	result   *service.ManualResult
	err      error
	busy     bool
	quitting bool
	width    int
}

var fieldLabels = []struct {
	name, label, placeholder string
}{
	{feature.FieldMonth, "月", "1-12"},
	{feature.FieldDay, "日", "1-31"},
	{feature.FieldWeekday, "星期", "1-7"},
	{feature.FieldIsHoliday, "是否假日", ""},
	{feature.FieldDuration, "時長（小時）", "0.5-24"},
	{feature.FieldCameraCount, "機位數量", "1-20"},
	{feature.FieldHighlights, "花絮", ""},
	{feature.FieldVideoSwitch, "視訊切換", ""},
	{feature.FieldVideoLink, "視訊連線", ""},
	{feature.FieldPAControl, "PA音控", ""},
	{feature.FieldMultiVenue, "大場分小場", ""},
	{feature.FieldProjectType, "工作性質", ""},
}

// NewForm creates a form with every numeric answer at 1 and every choice at
// its default.
func NewForm(ctx context.Context, p Predictor) *Form {
	f := &Form{ctx: ctx, predictor: p}
	for _, fl := range fieldLabels {
		ff := formField{name: fl.name, label: fl.label}
		if choices := feature.Choices(fl.name); len(choices) > 0 {
			ff.choices = choices
			def := feature.DefaultChoice(fl.name)
			for i, c := range choices {
				if c == def {
					ff.choice = i
				}
			}
		} else {
			in := textinput.New()
			in.Placeholder = fl.placeholder
			in.CharLimit = 6
			in.Width = 8
			in.SetValue("1")
			ff.input = in
		}
		f.fields = append(f.fields, ff)
	}
	f.setFocus(0)
	return f
}

// RawInput returns the current answers.
func (f *Form) RawInput() feature.RawInput {
	v := make(map[string]string, len(f.fields))
	for i := range f.fields {
		v[f.fields[i].name] = f.fields[i].value()
	}
	return feature.RawInput{
		Month:       v[feature.FieldMonth],
		Day:         v[feature.FieldDay],
		Weekday:     v[feature.FieldWeekday],
		IsHoliday:   v[feature.FieldIsHoliday],
		Duration:    v[feature.FieldDuration],
		CameraCount: v[feature.FieldCameraCount],
		Highlights:  v[feature.FieldHighlights],
		VideoSwitch: v[feature.FieldVideoSwitch],
		VideoLink:   v[feature.FieldVideoLink],
		PAControl:   v[feature.FieldPAControl],
		MultiVenue:  v[feature.FieldMultiVenue],
		ProjectType: v[feature.FieldProjectType],
	}
}

// Result returns the last successful prediction, if any.
func (f *Form) Result() (service.ManualResult, bool) {
	if f.result == nil {
		return service.ManualResult{}, false
	}
	return *f.result, true
}

// Err returns the error of the last submission.
func (f *Form) Err() error { return f.err }

// Focused returns the name of the focused field.
func (f *Form) Focused() string { return f.fields[f.focus].name }

func (f *Form) setFocus(i int) {
	n := len(f.fields)
	i = ((i % n) + n) % n
	if !f.fields[f.focus].isChoice() {
		f.fields[f.focus].input.Blur()
	}
	f.focus = i
	if !f.fields[i].isChoice() {
		f.fields[i].input.Focus()
	}
}

// Init implements tea.Model.
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		return f, nil

	case predictionMsg:
		f.busy = false
		if msg.err != nil {
			f.err = msg.err
			f.result = nil
			return f, nil
		}
		f.err = nil
		res := msg.result
		f.result = &res
		return f, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			f.quitting = true
			return f, tea.Quit
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil
		case "enter":
			return f, f.submit()
		}
		cur := &f.fields[f.focus]
		if cur.isChoice() {
			switch msg.String() {
			case "left", "h":
				cur.choice = (cur.choice + len(cur.choices) - 1) % len(cur.choices)
			case "right", "l", " ":
				cur.choice = (cur.choice + 1) % len(cur.choices)
			}
			return f, nil
		}
		var cmd tea.Cmd
		cur.input, cmd = cur.input.Update(msg)
		return f, cmd
	}

	if !f.fields[f.focus].isChoice() {
		var cmd tea.Cmd
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return f, cmd
	}
	return f, nil
}

func (f *Form) submit() tea.Cmd {
	if f.busy {
		return nil
	}
	f.busy = true
	in := f.RawInput()
	ctx, p := f.ctx, f.predictor
	return func() tea.Msg {
		res, err := p.PredictManual(ctx, in)
		return predictionMsg{result: res, err: err}
	}
}

// View implements tea.Model.
func (f *Form) View() string {
	if f.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("人力需求預測"))
	b.WriteString("\n\n")
	for i := range f.fields {
		ff := &f.fields[i]
		label := labelStyle.Render(ff.label)
		if i == f.focus {
			label = focusStyle.Render("› " + ff.label)
		}
		var val string
		if ff.isChoice() {
			val = renderChoices(ff.choices, ff.choice, i == f.focus)
		} else {
			val = ff.input.View()
		}
		b.WriteString(label + " " + val + "\n")
	}
	b.WriteString("\n")
	switch {
	case f.busy:
		b.WriteString(hintStyle.Render("預測中…"))
	case f.err != nil:
		b.WriteString(errorStyle.Render(f.err.Error()))
	case f.result != nil:
		b.WriteString(RenderManual(f.result.Output))
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab/↑↓ 移動 • ←→ 切換選項 • enter 預測 • esc 離開"))
	return b.String()
}

func renderChoices(choices []string, sel int, focused bool) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		switch {
		case i == sel && focused:
			parts[i] = selectedFocusStyle.Render(c)
		case i == sel:
			parts[i] = selectedStyle.Render(c)
		default:
			parts[i] = choiceStyle.Render(c)
		}
	}
	return strings.Join(parts, " ")
}
