package decode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/graphit/core"
)

// CSVDecoder decodes delimiter-separated files. The first row is the
// header; every following row becomes one record keyed by header column.
// Rows with a field count different from the header are malformed.
type CSVDecoder struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

var _ Decoder = (*CSVDecoder)(nil)

func (d *CSVDecoder) Decode(r io.Reader, meta FileMeta) ([]core.Record, map[string]any, error) {
	cr := csv.NewReader(r)
	if d.Comma != 0 {
		cr.Comma = d.Comma
	}
	cr.TrimLeadingSpace = true

	md := baseMetadata(meta)
	records := make([]core.Record, 0)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		md["columns"] = []string{}
		md["record_count"] = 0
		return records, md, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rec := make(core.Record, len(columns))
		for i, col := range columns {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}

	md["columns"] = columns
	md["record_count"] = len(records)
	return records, md, nil
}
