package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	service "github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type stubPredictor struct {
	got feature.RawInput
	err error
}

func (s *stubPredictor) PredictManual(_ context.Context, in feature.RawInput) (service.ManualResult, error) {
	s.got = in
	if s.err != nil {
		return service.ManualResult{}, s.err
	}
	return service.ManualResult{Output: types.Output{
		Columns: types.OutputColumns(),
		Rows:    [][]float64{{1, 2, 1, 1, 0.5, 0, 0, 0, 5.5}},
	}}, nil
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func typeText(f *Form, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func focusOn(f *Form, name string) {
	for i := 0; i < len(f.fields) && f.Focused() != name; i++ {
		f.Update(key(tea.KeyTab))
	}
}

// run executes cmd and feeds its message back into f.
func run(f *Form, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	f.Update(cmd())
}

func TestFormDefaults(t *testing.T) {
	Convey("Given a new form", t, func() {
		f := NewForm(context.Background(), &stubPredictor{})

		Convey("Then the answers should match the form defaults", func() {
			want := feature.RawInput{
				Month:       "1",
				Day:         "1",
				Weekday:     "1",
				IsHoliday:   feature.LabelNotHoliday,
				Duration:    "1",
				CameraCount: "1",
				Highlights:  feature.LabelNo,
				VideoSwitch: feature.LabelNo,
				VideoLink:   feature.LabelNo,
				PAControl:   feature.LabelNo,
				MultiVenue:  feature.LabelWillNot,
				ProjectType: feature.TypeLive,
			}
			So(cmp.Diff(want, f.RawInput()), ShouldBeEmpty)
			So(f.Focused(), ShouldEqual, feature.FieldMonth)
		})
	})
}

func TestFormNavigation(t *testing.T) {
	Convey("Given a new form", t, func() {
		f := NewForm(context.Background(), &stubPredictor{})

		Convey("When tabbing forward and back", func() {
			f.Update(key(tea.KeyTab))
			f.Update(key(tea.KeyTab))
			So(f.Focused(), ShouldEqual, feature.FieldWeekday)
			f.Update(key(tea.KeyShiftTab))
			So(f.Focused(), ShouldEqual, feature.FieldDay)
		})

		Convey("When moving up from the first field", func() {
			f.Update(key(tea.KeyUp))

			Convey("Then focus should wrap to the last field", func() {
				So(f.Focused(), ShouldEqual, feature.FieldProjectType)
			})
		})

		Convey("When editing a numeric field", func() {
			focusOn(f, feature.FieldCameraCount)
			f.Update(key(tea.KeyBackspace))
			typeText(f, "12")

			Convey("Then the typed value should be collected", func() {
				So(f.RawInput().CameraCount, ShouldEqual, "12")
			})
		})

		Convey("When cycling the project type", func() {
			focusOn(f, feature.FieldProjectType)
			f.Update(key(tea.KeyRight))
			So(f.RawInput().ProjectType, ShouldEqual, feature.TypeRecording)
			f.Update(key(tea.KeyRight))
			So(f.RawInput().ProjectType, ShouldEqual, feature.TypeOnSite)
			f.Update(key(tea.KeyLeft))
			So(f.RawInput().ProjectType, ShouldEqual, feature.TypeRecording)
		})

		Convey("When toggling a flag with space", func() {
			focusOn(f, feature.FieldHighlights)
			f.Update(key(tea.KeySpace))

			Convey("Then the positive label should be selected", func() {
				So(f.RawInput().Highlights, ShouldEqual, feature.LabelYes)
			})
		})
	})
}

func TestFormSubmit(t *testing.T) {
	Convey("Given a form and a predictor", t, func() {
		p := &stubPredictor{}
		f := NewForm(context.Background(), p)

		Convey("When submitting", func() {
			_, cmd := f.Update(key(tea.KeyEnter))
			So(f.busy, ShouldBeTrue)
			run(f, cmd)

			Convey("Then the result should be shown", func() {
				So(p.got, ShouldResemble, f.RawInput())
				res, ok := f.Result()
				So(ok, ShouldBeTrue)
				So(res.Output.Len(), ShouldEqual, 1)
				So(f.View(), ShouldContainSubstring, "5.5 人")
				So(f.View(), ShouldContainSubstring, "2.00")
			})
		})

		Convey("When the predictor fails", func() {
			p.err = errors.New("model error: no model loaded")
			_, cmd := f.Update(key(tea.KeyEnter))
			run(f, cmd)

			Convey("Then the error should be shown and no result kept", func() {
				So(f.Err(), ShouldNotBeNil)
				_, ok := f.Result()
				So(ok, ShouldBeFalse)
				So(f.View(), ShouldContainSubstring, "no model loaded")
			})
		})

		Convey("When submitting twice before the first returns", func() {
			_, first := f.Update(key(tea.KeyEnter))
			_, second := f.Update(key(tea.KeyEnter))

			Convey("Then only one prediction should be started", func() {
				So(first, ShouldNotBeNil)
				So(second, ShouldBeNil)
			})
		})

		Convey("When pressing escape", func() {
			_, cmd := f.Update(key(tea.KeyEsc))

			Convey("Then the program should quit", func() {
				So(cmd, ShouldNotBeNil)
				So(cmd(), ShouldHaveSameTypeAs, tea.Quit())
				So(f.View(), ShouldBeEmpty)
			})
		})
	})
}

func TestRenderPreview(t *testing.T) {
	Convey("Given the first input rows of a sheet", t, func() {
		f := feature.Frame{
			Header:  []string{feature.ColMonth, feature.ColDay},
			Records: [][]string{{"3", "15"}, {"4", "1"}},
		}

		Convey("Then the header and every cell should be shown", func() {
			out := RenderPreview(f)
			So(out, ShouldContainSubstring, feature.ColMonth)
			So(out, ShouldContainSubstring, "15")
			So(out, ShouldContainSubstring, "4")
		})
	})
}

func TestRenderBatch(t *testing.T) {
	Convey("Given a two row output", t, func() {
		o := types.Output{
			Columns: types.OutputColumns(),
			Rows: [][]float64{
				{1, 2, 1, 1, 0, 0, 0, 0, 5},
				{1, 3, 1, 1, 1, 0, 0, 0, 7},
			},
		}

		Convey("When rendering with dropped identifiers", func() {
			out := RenderBatch(o, []string{feature.ColProjectName})

			Convey("Then the summary and every row should be present", func() {
				So(out, ShouldContainSubstring, "共 2 筆")
				So(out, ShouldContainSubstring, "6.00")
				So(out, ShouldContainSubstring, "7.00")
				So(out, ShouldContainSubstring, feature.ColProjectName)
				So(out, ShouldContainSubstring, types.OutTotal)
				So(strings.Count(out, "\n"), ShouldBeGreaterThan, 3)
			})
		})
	})
}
