package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/okian/crewcast/internal/adapters/artifact"
	app "github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/types"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func writeFile(dir, name, content string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return p
}

// constantForest predicts 3 for every output.
func constantForest(dir string) string {
	leaf := make([]float64, len(types.OutputColumns()))
	for i := range leaf {
		leaf[i] = 3
	}
	data, err := json.Marshal(artifact.Forest{
		FeatureNames: feature.Columns(),
		OutputNames:  types.OutputColumns(),
		Trees:        []artifact.Tree{{Nodes: []artifact.Node{{Left: -1, Right: -1, Value: leaf}}}},
	})
	if err != nil {
		panic(err)
	}
	return writeFile(dir, "forest.json", string(data))
}

func encodedSheet() string {
	header := append([]string{feature.ColProjectName, feature.ColDateLabel}, feature.Columns()...)
	row := []string{"晚會", "3/15", "3", "15", "5", "0", "4", "3", "1", "0", "0", "1", "0", "1", "0", "0"}
	return strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"
}

func TestPredictFile(t *testing.T) {
	convey.Convey("Given a loaded forest and an encoded sheet", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		svc := app.New(app.WithLogger(logger.Discard()))
		_, err := svc.LoadModel(ctx, constantForest(dir))
		convey.So(err, convey.ShouldBeNil)
		in := writeFile(dir, "projects.csv", encodedSheet())
		fixed := func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

		convey.Convey("When predicting without an output", func() {
			var buf bytes.Buffer
			written, err := predictFile(ctx, svc, in, "", &buf, fixed)

			convey.Convey("Then the table should be printed and nothing written", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(written, convey.ShouldBeEmpty)
				convey.So(buf.String(), convey.ShouldContainSubstring, "上傳資料預覽")
				convey.So(buf.String(), convey.ShouldContainSubstring, feature.ColCameraCount)
				convey.So(buf.String(), convey.ShouldNotContainSubstring, "晚會")
				convey.So(buf.String(), convey.ShouldContainSubstring, "共 1 筆")
				convey.So(buf.String(), convey.ShouldContainSubstring, "3.00")
			})
		})

		convey.Convey("When the output is a directory", func() {
			outDir := filepath.Join(dir, "out")
			convey.So(os.Mkdir(outDir, 0o755), convey.ShouldBeNil)
			var buf bytes.Buffer
			written, err := predictFile(ctx, svc, in, outDir, &buf, fixed)

			convey.Convey("Then a timestamped export should be written", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(written, convey.ShouldEqual, filepath.Join(outDir, "prediction_results_20240102_030405.csv"))
				data, err := os.ReadFile(written)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldStartWith, strings.Join(types.OutputColumns(), ","))
			})
		})

		convey.Convey("When the sheet is not encoded", func() {
			raw := writeFile(dir, "raw.csv", "月,日,是否假日\n3,15,是\n")
			_, err := predictFile(ctx, svc, raw, "", &bytes.Buffer{}, fixed)

			convey.Convey("Then the model should reject it", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(app.Kind(err), convey.ShouldEqual, app.KindModel)
			})
		})

		convey.Convey("When the input does not exist", func() {
			_, err := predictFile(ctx, svc, filepath.Join(dir, "missing.csv"), "", &bytes.Buffer{}, fixed)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestCommandRegistration(t *testing.T) {
	convey.Convey("Given the command tree", t, func() {
		a := kingpin.New("crewcast-desk", "test")
		a.Terminate(nil)
		registerForm(a)
		registerBatch(a)

		convey.Convey("Then batch should require --in", func() {
			_, err := a.Parse([]string{"batch"})
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "in")
		})

		convey.Convey("And both commands should be known", func() {
			convey.So(a.GetCommand("form"), convey.ShouldNotBeNil)
			convey.So(a.GetCommand("batch"), convey.ShouldNotBeNil)
		})
	})
}
