package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/okian/crewcast/internal/adapters/tui"
	app "github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/domain/present"
)

type batchCommand struct {
	sharedFlags
	in  string
	out string
}

func (c *batchCommand) run(*kingpin.ParseContext) error {
	svc, release, err := c.setup(nocontext)
	if err != nil {
		return err
	}
	defer release()

	written, err := predictFile(nocontext, svc, c.in, c.out, os.Stdout, time.Now)
	if err != nil {
		return err
	}
	if written != "" {
		fmt.Fprintf(os.Stdout, "results written to %s\n", written)
	}
	return nil
}

// predictFile predicts every row of in, renders the results to w and, when
// out is set, exports them. An out naming a directory receives a timestamped
// file. It returns the path written, if any.
func predictFile(ctx context.Context, svc *app.Service, in, out string, w io.Writer, now func() time.Time) (string, error) {
	f, err := os.Open(in)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := svc.PredictBatch(ctx, f)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(w, tui.RenderPreview(res.Preview))
	fmt.Fprintln(w, tui.RenderBatch(res.Output, res.Dropped))

	if out == "" {
		return "", nil
	}
	if st, err := os.Stat(out); err == nil && st.IsDir() {
		out = filepath.Join(out, present.ExportFileName(now()))
	}
	dst, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	if err := svc.ExportCSV(dst, res.Output); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close output: %w", err)
	}
	return out, nil
}

// registerBatch registers the file prediction command.
func registerBatch(app *kingpin.Application) {
	c := new(batchCommand)

	cmd := app.Command("batch", "predict every row of a delimited file").
		Action(c.run)
	c.register(cmd)
	cmd.Flag("in", "input file with a header row").
		Required().
		ExistingFileVar(&c.in)
	cmd.Flag("out", "write results to this file or directory").
		StringVar(&c.out)
}
