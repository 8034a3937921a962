package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML renders a note body as HTML. Metadata lines are not markdown
// and are dropped before rendering.
func RenderHTML(content string) (string, error) {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if metadataRegex.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}

	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(strings.Join(kept, "\n")), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
