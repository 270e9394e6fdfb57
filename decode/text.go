package decode

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/graphit/core"
)

// TextDecoder decodes plain text and markdown. The whole input becomes a
// single record with the text under "content"; chunking happens later in
// the pipeline. A blank file decodes to zero records.
type TextDecoder struct{}

var _ Decoder = (*TextDecoder)(nil)

func (d *TextDecoder) Decode(r io.Reader, meta FileMeta) ([]core.Record, map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	text := string(raw)

	md := baseMetadata(meta)
	md["characters"] = utf8.RuneCountInString(text)
	md["lines"] = countLines(text)

	records := make([]core.Record, 0, 1)
	if strings.TrimSpace(text) != "" {
		records = append(records, core.Record{"content": text})
	}
	md["record_count"] = len(records)
	return records, md, nil
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
