// Package parser converts between note files and the note model.
//
// The dialect is deliberately small: one "# " title line, tagged metadata
// lines of the form "<? keywords: a, b ?>", and sections introduced by
// "## " headings. Everything else is section data.
package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/noted/internal/note"
)

var metadataRegex = regexp.MustCompile(`^<\?\s*(keywords?|present|speakers?)\s*:(.*)\?>$`)

const (
	titlePrefix   = "# "
	sectionPrefix = "## "
)

// Decode builds a note from text. It never fails: text with no recognised
// structure yields a note with an empty title and no sections.
//
// The returned note has no filename, and its date and timestamp are those of
// note.New; callers that know where the text came from fill them in.
func Decode(text string) *note.Note {
	n := note.New("", "")
	n.Body = text

	var (
		heading string
		open    bool
		data    []string
	)
	flush := func() {
		if open {
			n.Sections.Set(heading, strings.Join(data, "\n"))
		}
		data = data[:0]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, sectionPrefix):
			flush()
			heading = strings.TrimSpace(trimmed[len(sectionPrefix):])
			open = heading != ""
		case strings.HasPrefix(trimmed, titlePrefix):
			n.Title = strings.TrimSpace(trimmed[len(titlePrefix):])
		case metadataRegex.MatchString(trimmed):
			m := metadataRegex.FindStringSubmatch(trimmed)
			n.AppendTags(tagKind(m[1]), SplitTags(m[2])...)
		default:
			if open {
				data = append(data, line)
			}
		}
	}
	flush()

	return n
}

// SplitTags splits a comma or semicolon separated list. Tokens are trimmed
// and empty tokens dropped.
func SplitTags(s string) []string {
	s = strings.ReplaceAll(s, ";", ",")
	var out []string
	for _, tok := range strings.Split(s, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func tagKind(name string) note.TagKind {
	switch name {
	case "keyword", "keywords":
		return note.Keywords
	case "present":
		return note.Present
	default:
		return note.Speakers
	}
}

// Encode renders n in canonical form.
func Encode(n *note.Note) string {
	var b strings.Builder

	b.WriteString(titlePrefix)
	b.WriteString(n.Title)
	b.WriteString("\n")

	for _, kind := range note.TagKinds {
		if line := MetadataLine(kind, n.Tags(kind)); line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	for _, sec := range n.Sections.All() {
		b.WriteString(sectionPrefix)
		b.WriteString(sec.Heading)
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(sec.Data))
		b.WriteString("\n\n")
	}

	return b.String()
}

// MetadataLine formats one tagged metadata line, or "" when values is empty.
func MetadataLine(kind note.TagKind, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return "<? " + string(kind) + ": " + strings.Join(values, ", ") + " ?>"
}
