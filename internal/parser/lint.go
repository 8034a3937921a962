package parser

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a parsed heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-indexed
}

// Issue is a problem found by Lint.
type Issue struct {
	Line    int // 1-indexed, 0 when the issue concerns the whole file
	Message string
}

func (i Issue) String() string {
	if i.Line == 0 {
		return i.Message
	}
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// ExtractHeadings extracts headings from markdown content using goldmark.
func ExtractHeadings(content string) []Heading {
	var headings []Heading

	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	lineStarts := computeLineStarts(content)

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var textBuilder strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if textNode, ok := child.(*ast.Text); ok {
				textBuilder.Write(textNode.Segment.Value(source))
			}
		}
		headingText := strings.TrimSpace(textBuilder.String())
		if headingText == "" {
			return ast.WalkContinue, nil
		}

		line := 1
		if heading.Lines().Len() > 0 {
			line = 1 + offsetToLine(lineStarts, heading.Lines().At(0).Start)
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  headingText,
			Line:  line,
		})
		return ast.WalkContinue, nil
	})

	return headings
}

// Lint reports constructs that Decode accepts but handles lossily: a missing
// or repeated title, repeated section headings (later data replaces earlier),
// and metadata lines placed after the first section.
func Lint(content string) []Issue {
	var issues []Issue

	var titles []Heading
	firstSection := 0
	seen := make(map[string]int)
	for _, h := range ExtractHeadings(content) {
		switch h.Level {
		case 1:
			titles = append(titles, h)
		case 2:
			if firstSection == 0 {
				firstSection = h.Line
			}
			if prev, ok := seen[h.Text]; ok {
				issues = append(issues, Issue{
					Line:    h.Line,
					Message: fmt.Sprintf("duplicate section %q (first at line %d) replaces earlier content", h.Text, prev),
				})
				continue
			}
			seen[h.Text] = h.Line
		}
	}

	switch {
	case len(titles) == 0:
		issues = append(issues, Issue{Message: "missing title"})
	case len(titles) > 1:
		for _, h := range titles[1:] {
			issues = append(issues, Issue{
				Line:    h.Line,
				Message: fmt.Sprintf("additional title %q overrides %q", h.Text, titles[0].Text),
			})
		}
	}

	if firstSection > 0 {
		for i, line := range strings.Split(content, "\n") {
			if i+1 > firstSection && metadataRegex.MatchString(strings.TrimSpace(line)) {
				issues = append(issues, Issue{Line: i + 1, Message: "metadata line after first section"})
			}
		}
	}

	return issues
}

// computeLineStarts computes the byte offset of each line start.
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// offsetToLine converts a byte offset to a 0-indexed line number.
func offsetToLine(lineStarts []int, offset int) int {
	for i := len(lineStarts) - 1; i >= 0; i-- {
		if lineStarts[i] <= offset {
			return i
		}
	}
	return 0
}
