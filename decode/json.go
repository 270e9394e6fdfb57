package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/poiesic/graphit/core"
)

// JSONDecoder decodes a JSON document. A top-level array yields one record
// per element, a top-level object yields a single record. Array elements
// must themselves be objects. Numbers are kept as json.Number so numeric
// identifiers survive undamaged.
type JSONDecoder struct{}

var _ Decoder = (*JSONDecoder)(nil)

func (d *JSONDecoder) Decode(r io.Reader, meta FileMeta) ([]core.Record, map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	md := baseMetadata(meta)
	records := make([]core.Record, 0)

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			md["record_count"] = 0
			return records, md, nil
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch t := v.(type) {
	case []any:
		for i, elem := range t {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("%w: array element %d is not an object", ErrMalformed, i)
			}
			records = append(records, core.Record(obj))
		}
	case map[string]any:
		records = append(records, core.Record(t))
	default:
		return nil, nil, fmt.Errorf("%w: top-level JSON must be an object or an array of objects", ErrMalformed)
	}

	md["record_count"] = len(records)
	return records, md, nil
}
