package decode

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/graphit/core"
)

// XMLDecoder decodes an XML document. Each child element of the root
// becomes one record: leaf elements map tag to text, attributes map to
// "@name" keys, and nested elements flatten into dotted paths. Repeated
// sibling tags keep the last value.
type XMLDecoder struct{}

var _ Decoder = (*XMLDecoder)(nil)

func (d *XMLDecoder) Decode(r io.Reader, meta FileMeta) ([]core.Record, map[string]any, error) {
	dec := xml.NewDecoder(r)

	md := baseMetadata(meta)
	records := make([]core.Record, 0)
	root := ""

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root == "" {
			root = start.Name.Local
			continue
		}
		rec := make(core.Record)
		if err := readElement(dec, start, "", rec); err != nil {
			return nil, nil, err
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}

	md["root"] = root
	md["record_count"] = len(records)
	return records, md, nil
}

// readElement consumes start's subtree, writing values into rec. key is
// the flattened path of start; "" marks the record element itself, whose
// direct text is not stored.
func readElement(dec *xml.Decoder, start xml.StartElement, key string, rec core.Record) error {
	for _, attr := range start.Attr {
		rec[joinKey(key, "@"+attr.Name.Local)] = attr.Value
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := readElement(dec, t, joinKey(key, t.Name.Local), rec); err != nil {
				return err
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if v := strings.TrimSpace(text.String()); v != "" && key != "" {
				rec[key] = v
			}
			return nil
		}
	}
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
