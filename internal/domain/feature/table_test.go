package feature_test

import (
	"errors"
	"testing"

	"github.com/okian/crewcast/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewTable(t *testing.T) {
	Convey("Given two encoded rows", t, func() {
		b := feature.NewBuilder()
		first, err := b.Build(liveInput())
		So(err, ShouldBeNil)
		in := liveInput()
		in.Duration = "2.5"
		second, err := b.Build(in)
		So(err, ShouldBeNil)

		Convey("When a table is built from them", func() {
			tbl := feature.NewTable(first, second)

			Convey("Then it uses the model columns and keeps row order", func() {
				So(tbl.Columns(), ShouldResemble, feature.Columns())
				So(tbl.Len(), ShouldEqual, 2)
				m, err := tbl.Matrix()
				So(err, ShouldBeNil)
				So(m[0], ShouldResemble, first.Values())
				So(m[1][4], ShouldEqual, 2.5)
			})

			Convey("And cells hold the shortest text for each value", func() {
				cells := tbl.Cells()
				So(cells[0][0], ShouldEqual, "6")
				So(cells[1][4], ShouldEqual, "2.5")
			})

			Convey("And the returned cells are copies", func() {
				cells := tbl.Cells()
				cells[0][0] = "oops"
				So(tbl.Cells()[0][0], ShouldEqual, "6")
			})
		})
	})
}

func TestMatrix(t *testing.T) {
	Convey("Given imported frames", t, func() {
		Convey("When a cell is not numeric", func() {
			tbl, _ := feature.BuildBatch(feature.Frame{
				Header:  []string{"月", "工作性質"},
				Records: [][]string{{"6", "直播"}},
			})
			_, err := tbl.Matrix()

			Convey("Then the error names the row and column", func() {
				So(errors.Is(err, feature.ErrTable), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, `row 1 column "工作性質"`)
			})
		})

		Convey("When a row is ragged", func() {
			tbl, _ := feature.BuildBatch(feature.Frame{
				Header:  []string{"月", "日"},
				Records: [][]string{{"6", "1"}, {"7"}},
			})
			_, err := tbl.Matrix()

			Convey("Then the error names the short row", func() {
				So(errors.Is(err, feature.ErrTable), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "row 2 has 1 cells, want 2")
			})
		})

		Convey("When cells are padded numbers", func() {
			tbl, _ := feature.BuildBatch(feature.Frame{
				Header:  []string{"月", "時長"},
				Records: [][]string{{" 6", "1.5 "}},
			})
			m, err := tbl.Matrix()

			Convey("Then they convert", func() {
				So(err, ShouldBeNil)
				So(m, ShouldResemble, [][]float64{{6, 1.5}})
			})
		})

		Convey("When a cell is infinite", func() {
			tbl, _ := feature.BuildBatch(feature.Frame{
				Header:  []string{"月"},
				Records: [][]string{{"Inf"}},
			})
			_, err := tbl.Matrix()

			Convey("Then it is rejected", func() {
				So(errors.Is(err, feature.ErrTable), ShouldBeTrue)
			})
		})
	})
}
