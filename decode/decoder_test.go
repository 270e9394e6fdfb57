package decode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphit/core"
)

func TestRegistrySupported(t *testing.T) {
	reg := NewRegistry()

	for _, f := range []core.SourceFormat{core.FormatCSV, core.FormatTSV, core.FormatJSON, core.FormatXML, core.FormatText, core.FormatMD, core.FormatHTML} {
		assert.True(t, reg.Supported(f), "format %q should be supported", f)
		d, err := reg.Decoder(f)
		require.NoError(t, err)
		assert.NotNil(t, d)
	}
}

func TestRegistryUnsupported(t *testing.T) {
	reg := NewRegistry()

	assert.False(t, reg.Supported(core.SourceFormat("pdf")))
	_, err := reg.Decoder(core.SourceFormat("pdf"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRegistryFormatsSorted(t *testing.T) {
	formats := NewRegistry().Formats()

	require.Len(t, formats, 7)
	for i := 1; i < len(formats); i++ {
		assert.Less(t, string(formats[i-1]), string(formats[i]))
	}
}

func TestTextDecoder(t *testing.T) {
	d := &TextDecoder{}
	input := "Tom Hanks starred in Big.\nPenny Marshall directed it.\n"

	records, md, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "notes.txt", Size: int64(len(input)), Format: core.FormatText})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, input, records[0]["content"])
	assert.Equal(t, "notes.txt", md["filename"])
	assert.Equal(t, int64(len(input)), md["size_bytes"])
	assert.Equal(t, "txt", md["format"])
	assert.Equal(t, 2, md["lines"])
}

func TestTextDecoderBlankInput(t *testing.T) {
	d := &TextDecoder{}

	records, md, err := d.Decode(strings.NewReader("  \n\t\n"), FileMeta{Filename: "empty.txt", Format: core.FormatText})
	require.NoError(t, err)

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 0, md["record_count"])
}
