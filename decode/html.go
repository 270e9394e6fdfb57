package decode

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/poiesic/graphit/core"
)

// HTMLDecoder extracts the visible text of an HTML page into a single
// record. Script, style and noscript subtrees are skipped. The page title
// lands both in the record and in the decoder metadata.
type HTMLDecoder struct{}

var _ Decoder = (*HTMLDecoder)(nil)

func (d *HTMLDecoder) Decode(r io.Reader, meta FileMeta) ([]core.Record, map[string]any, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var sb strings.Builder
	title := ""

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		case html.TextNode:
			if txt := strings.TrimSpace(n.Data); txt != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(txt)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	content := sb.String()
	md := baseMetadata(meta)
	md["title"] = title
	md["characters"] = utf8.RuneCountInString(content)

	records := make([]core.Record, 0, 1)
	if content != "" {
		rec := core.Record{"content": content}
		if title != "" {
			rec["title"] = title
		}
		records = append(records, rec)
	}
	md["record_count"] = len(records)
	return records, md, nil
}
