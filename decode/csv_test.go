package decode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphit/core"
)

func TestCSVDecoder(t *testing.T) {
	input := "title,director,year\nBig,Penny Marshall,1988\nForrest Gump,Robert Zemeckis,1994\n"
	d := &CSVDecoder{}

	records, md, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "movies.csv", Size: int64(len(input)), Format: core.FormatCSV})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Big", records[0]["title"])
	assert.Equal(t, "Penny Marshall", records[0]["director"])
	assert.Equal(t, "1994", records[1]["year"])
	assert.Equal(t, []string{"title", "director", "year"}, md["columns"])
	assert.Equal(t, 2, md["record_count"])
}

func TestCSVDecoderTabDelimited(t *testing.T) {
	input := "name\tstudio\nTom Hanks\tPlaytone\n"
	d := &CSVDecoder{Comma: '\t'}

	records, _, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "people.tsv", Format: core.FormatTSV})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Tom Hanks", records[0]["name"])
	assert.Equal(t, "Playtone", records[0]["studio"])
}

func TestCSVDecoderRaggedRow(t *testing.T) {
	input := "a,b\n1,2\n3\n"
	d := &CSVDecoder{}

	_, _, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "bad.csv", Format: core.FormatCSV})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestCSVDecoderEmptyFile(t *testing.T) {
	d := &CSVDecoder{}

	records, md, err := d.Decode(strings.NewReader(""), FileMeta{Filename: "empty.csv", Format: core.FormatCSV})
	require.NoError(t, err)

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 0, md["record_count"])
}

func TestCSVDecoderHeaderOnly(t *testing.T) {
	d := &CSVDecoder{}

	records, md, err := d.Decode(strings.NewReader("title,year\n"), FileMeta{Filename: "header.csv", Format: core.FormatCSV})
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, []string{"title", "year"}, md["columns"])
}
