// Package csvio reads project sheets and writes prediction results as
// delimited text.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/types"
)

const utf8BOM = "\xef\xbb\xbf"

type options struct {
	comma rune
}

// Option applies a configuration option to Read and Write.
type Option func(*options)

// WithDelimiter sets the field delimiter. The default is a comma.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if r != 0 {
			o.comma = r
		}
	}
}

func newOptions(opts []Option) options {
	o := options{comma: ','}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Read parses a delimited file with a header row. Empty input, a missing
// header, blank or duplicate column names and rows with the wrong number of
// fields fail with ErrFile.
func Read(r io.Reader, opts ...Option) (feature.Frame, error) {
	o := newOptions(opts)

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, []byte(utf8BOM)) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = o.comma
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return feature.Frame{}, fmt.Errorf("%w: file is empty", ErrFile)
	}
	if err != nil {
		return feature.Frame{}, fmt.Errorf("%w: %w", ErrFile, err)
	}

	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return feature.Frame{}, fmt.Errorf("%w: column %d has no name", ErrFile, i+1)
		}
		if seen[h] {
			return feature.Frame{}, fmt.Errorf("%w: duplicate column %q", ErrFile, h)
		}
		seen[h] = true
		header[i] = h
	}

	records, err := cr.ReadAll()
	if err != nil {
		return feature.Frame{}, fmt.Errorf("%w: %w", ErrFile, err)
	}
	return feature.Frame{Header: header, Records: records}, nil
}

// Write serializes predictions with the output column header. Values keep
// full precision; rounding is a presentation concern.
func Write(w io.Writer, o types.Output, opts ...Option) error {
	op := newOptions(opts)
	cw := csv.NewWriter(w)
	cw.Comma = op.comma

	if err := cw.Write(o.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range o.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}
