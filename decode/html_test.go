package decode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphit/core"
)

func TestHTMLDecoder(t *testing.T) {
	input := `<html><head><title>Filmography</title><style>p{color:red}</style></head>
<body><h1>Tom Hanks</h1><p>Starred in Big.</p><script>alert("x")</script></body></html>`
	d := &HTMLDecoder{}

	records, md, err := d.Decode(strings.NewReader(input), FileMeta{Filename: "page.html", Format: core.FormatHTML})
	require.NoError(t, err)

	require.Len(t, records, 1)
	content, _ := records[0]["content"].(string)
	assert.Contains(t, content, "Tom Hanks")
	assert.Contains(t, content, "Starred in Big.")
	assert.NotContains(t, content, "alert")
	assert.NotContains(t, content, "color:red")
	assert.Equal(t, "Filmography", records[0]["title"])
	assert.Equal(t, "Filmography", md["title"])
}

func TestHTMLDecoderEmptyBody(t *testing.T) {
	d := &HTMLDecoder{}

	records, md, err := d.Decode(strings.NewReader("<html><body></body></html>"), FileMeta{Filename: "blank.html", Format: core.FormatHTML})
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, 0, md["record_count"])
}
