package feature_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/crewcast/internal/domain/feature"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDropIdentifiers(t *testing.T) {
	Convey("Given a sheet with identifier columns", t, func() {
		f := feature.Frame{
			Header: []string{"專案", "日期", "月", "日"},
			Records: [][]string{
				{"A", "2024-06-15", "6", "15"},
				{"B", "2024-07-01", "7", "1"},
			},
		}

		Convey("When identifiers are dropped", func() {
			out, dropped := f.DropIdentifiers()

			Convey("Then only feature columns remain", func() {
				want := feature.Frame{
					Header:  []string{"月", "日"},
					Records: [][]string{{"6", "15"}, {"7", "1"}},
				}
				if diff := cmp.Diff(want, out); diff != "" {
					t.Errorf("frame mismatch (-want +got):\n%s", diff)
				}
				So(dropped, ShouldResemble, []string{"專案", "日期"})
			})

			Convey("And the input frame is untouched", func() {
				So(f.Header, ShouldHaveLength, 4)
				So(f.Records[0][0], ShouldEqual, "A")
			})

			Convey("And dropping again changes nothing", func() {
				again, droppedAgain := out.DropIdentifiers()
				if diff := cmp.Diff(out, again); diff != "" {
					t.Errorf("second drop changed the frame (-first +second):\n%s", diff)
				}
				So(droppedAgain, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a sheet with only one identifier in the middle", t, func() {
		f := feature.Frame{
			Header:  []string{"月", "日期", "日"},
			Records: [][]string{{"6", "x", "15"}},
		}

		Convey("Then that column alone is removed", func() {
			out, dropped := f.DropIdentifiers()
			So(out.Header, ShouldResemble, []string{"月", "日"})
			So(out.Records, ShouldResemble, [][]string{{"6", "15"}})
			So(dropped, ShouldResemble, []string{"日期"})
		})
	})
}

func TestBuildBatch(t *testing.T) {
	Convey("Given an imported sheet of project labels", t, func() {
		f := feature.Frame{
			Header:  []string{"專案", "日期", "月", "工作性質"},
			Records: [][]string{{"A", "6/15", "6", "直播"}},
		}

		Convey("When it is prepared for the runtime", func() {
			tbl, dropped := feature.BuildBatch(f)

			Convey("Then identifiers are dropped and the rest passes through unencoded", func() {
				So(dropped, ShouldResemble, []string{"專案", "日期"})
				So(tbl.Columns(), ShouldResemble, []string{"月", "工作性質"})
				So(tbl.Cells(), ShouldResemble, [][]string{{"6", "直播"}})
			})
		})
	})

	Convey("Given an already encoded sheet", t, func() {
		header := append([]string{"專案"}, feature.Columns()...)
		rec := []string{"A", "6", "15", "3", "0", "3", "3", "0", "0", "0", "0", "0", "1", "0", "0"}
		tbl, dropped := feature.BuildBatch(feature.Frame{Header: header, Records: [][]string{rec}})

		Convey("Then the table is in model order and numeric", func() {
			So(dropped, ShouldResemble, []string{"專案"})
			So(tbl.Columns(), ShouldResemble, feature.Columns())
			m, err := tbl.Matrix()
			So(err, ShouldBeNil)
			So(m[0], ShouldResemble, []float64{6, 15, 3, 0, 3, 3, 0, 0, 0, 0, 0, 1, 0, 0})
		})
	})
}

func TestFrameHead(t *testing.T) {
	Convey("Given a frame of three records", t, func() {
		f := feature.Frame{
			Header:  []string{"月", "日"},
			Records: [][]string{{"1", "1"}, {"2", "1"}, {"3", "1"}},
		}

		Convey("When fewer rows are asked for", func() {
			head := f.Head(2)

			Convey("Then only those are copied", func() {
				So(head.Header, ShouldResemble, f.Header)
				So(head.Records, ShouldResemble, [][]string{{"1", "1"}, {"2", "1"}})
				head.Records[0][0] = "x"
				So(f.Records[0][0], ShouldEqual, "1")
			})
		})

		Convey("When more rows than exist are asked for", func() {
			So(f.Head(10).Records, ShouldHaveLength, 3)
		})

		Convey("When a negative count is given", func() {
			So(f.Head(-1).Records, ShouldBeEmpty)
		})
	})
}
