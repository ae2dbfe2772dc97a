package feature

// Frame is a header plus records as read from a delimited file.
type Frame struct {
	Header  []string
	Records [][]string
}

// DropIdentifiers returns a copy of f without the project name and date
// label columns, plus the names it removed in header order. Running it on a
// frame that has no identifier columns returns an equal frame and no names.
func (f Frame) DropIdentifiers() (Frame, []string) {
	drop := make(map[string]bool, len(identifierColumns))
	for _, c := range identifierColumns {
		drop[c] = true
	}

	var keep []int
	var dropped []string
	for i, name := range f.Header {
		if drop[name] {
			dropped = append(dropped, name)
			continue
		}
		keep = append(keep, i)
	}

	out := Frame{Header: make([]string, 0, len(keep)), Records: make([][]string, len(f.Records))}
	for _, i := range keep {
		out.Header = append(out.Header, f.Header[i])
	}
	for r, rec := range f.Records {
		row := make([]string, 0, len(keep))
		for _, i := range keep {
			if i < len(rec) {
				row = append(row, rec[i])
			}
		}
		out.Records[r] = row
	}
	return out, dropped
}

// Head returns a copy of f holding at most its first n records.
func (f Frame) Head(n int) Frame {
	if n < 0 {
		n = 0
	}
	if n > len(f.Records) {
		n = len(f.Records)
	}
	out := Frame{Header: append([]string(nil), f.Header...), Records: make([][]string, n)}
	for i := range out.Records {
		out.Records[i] = append([]string(nil), f.Records[i]...)
	}
	return out
}

// BuildBatch prepares an imported frame for the runtime. Identifier columns
// are dropped; every other column is passed through as-is. The categorical
// encoder is NOT applied here: imported sheets are expected to already hold
// the encoded 14 feature columns, and anything else is left for the runtime
// to reject.
func BuildBatch(f Frame) (*Table, []string) {
	trimmed, dropped := f.DropIdentifiers()
	return newTableFromFrame(trimmed), dropped
}
