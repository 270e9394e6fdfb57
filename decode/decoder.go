package decode

import (
	"fmt"
	"io"
	"slices"

	"github.com/poiesic/graphit/core"
)

// FileMeta describes the file being decoded.
type FileMeta struct {
	Filename string
	Size     int64
	Format   core.SourceFormat
}

// Decoder reads one source file into records.
//
// The returned metadata always contains "filename", "size_bytes" and
// "format"; decoders add format-specific keys. The record slice may be
// empty but is never nil.
type Decoder interface {
	Decode(r io.Reader, meta FileMeta) ([]core.Record, map[string]any, error)
}

// baseMetadata returns the metadata keys every decoder emits.
func baseMetadata(meta FileMeta) map[string]any {
	return map[string]any{
		"filename":   meta.Filename,
		"size_bytes": meta.Size,
		"format":     string(meta.Format),
	}
}

// Registry maps source formats to their decoders.
type Registry struct {
	decoders map[core.SourceFormat]Decoder
}

// NewRegistry returns a registry covering every supported format.
func NewRegistry() *Registry {
	return &Registry{
		decoders: map[core.SourceFormat]Decoder{
			core.FormatCSV:  &CSVDecoder{},
			core.FormatTSV:  &CSVDecoder{Comma: '\t'},
			core.FormatJSON: &JSONDecoder{},
			core.FormatXML:  &XMLDecoder{},
			core.FormatText: &TextDecoder{},
			core.FormatMD:   &TextDecoder{},
			core.FormatHTML: &HTMLDecoder{},
		},
	}
}

// Decoder returns the decoder for a format, or ErrUnsupportedFormat.
func (r *Registry) Decoder(format core.SourceFormat) (Decoder, error) {
	d, ok := r.decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return d, nil
}

// Supported reports whether the format has a decoder.
func (r *Registry) Supported(format core.SourceFormat) bool {
	_, ok := r.decoders[format]
	return ok
}

// Formats returns the supported formats in sorted order.
func (r *Registry) Formats() []core.SourceFormat {
	formats := make([]core.SourceFormat, 0, len(r.decoders))
	for f := range r.decoders {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}
