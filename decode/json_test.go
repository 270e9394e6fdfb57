package decode

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphit/core"
)

func TestJSONDecoderArray(t *testing.T) {
	input := `[{"title":"Big","year":1988},{"title":"Forrest Gump","year":1994}]`
	d := &JSONDecoder{}

	records, md, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "movies.json", Format: core.FormatJSON})
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "Big", records[0]["title"])
	assert.Equal(t, json.Number("1988"), records[0]["year"])
	assert.Equal(t, 2, md["record_count"])
}

func TestJSONDecoderSingleObject(t *testing.T) {
	input := `{"name":"Tom Hanks","type":"Person"}`
	d := &JSONDecoder{}

	records, _, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "person.json", Format: core.FormatJSON})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Tom Hanks", records[0]["name"])
}

func TestJSONDecoderMalformed(t *testing.T) {
	d := &JSONDecoder{}

	tests := []struct {
		name  string
		input string
	}{
		{"truncated object", `{"title": "Big"`},
		{"scalar top level", `42`},
		{"array of scalars", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := d.Decode(strings.NewReader(tt.input), FileMeta{Filename: "bad.json", Format: core.FormatJSON})
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestJSONDecoderEmptyFile(t *testing.T) {
	d := &JSONDecoder{}

	records, md, err := d.Decode(strings.NewReader(""), FileMeta{Filename: "empty.json", Format: core.FormatJSON})
	require.NoError(t, err)

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, 0, md["record_count"])
}
