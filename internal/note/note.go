// Package note defines the in-memory representation of a note file.
//
// A note is a title, three ordered tag sequences (keywords, present,
// speakers) and a list of H2-delimited sections. This package performs no
// I/O; parsing and serialization live in the parser package.
package note

import (
	"regexp"
	"time"

	"github.com/aidanlsb/noted/internal/dates"
)

// TagKind identifies one of the tag sequences carried by a note.
type TagKind string

const (
	Keywords TagKind = "keywords"
	Present  TagKind = "present"
	Speakers TagKind = "speakers"
)

// TagKinds lists the tag sequences in their canonical serialization order.
var TagKinds = []TagKind{Keywords, Present, Speakers}

// Valid reports whether k names a known tag sequence.
func (k TagKind) Valid() bool {
	switch k {
	case Keywords, Present, Speakers:
		return true
	}
	return false
}

// Note is the structured form of one markdown note.
type Note struct {
	Title     string
	Filename  string
	Date      string // YYYYMMDD
	Keywords  []string
	Present   []string
	Speakers  []string
	Timestamp time.Time
	Sections  Sections

	// Body is the verbatim text the note was decoded from, if any.
	Body string
}

var dateToken = regexp.MustCompile(`\d{8}`)

// New creates an empty note. The date comes from the first 8-digit run in
// filename, or today's date when there is none.
func New(title, filename string) *Note {
	return &Note{
		Title:     title,
		Filename:  filename,
		Date:      DateFromFilename(filename),
		Timestamp: time.Now(),
	}
}

// DateFromFilename returns the first YYYYMMDD token in name, or today.
func DateFromFilename(name string) string {
	if m := dateToken.FindString(name); m != "" {
		return m
	}
	return dates.Token(time.Now())
}

// Tags returns the sequence for kind. The returned slice aliases the note.
func (n *Note) Tags(kind TagKind) []string {
	switch kind {
	case Keywords:
		return n.Keywords
	case Present:
		return n.Present
	case Speakers:
		return n.Speakers
	}
	return nil
}

// AppendTags appends values to the sequence for kind. Duplicates are kept.
func (n *Note) AppendTags(kind TagKind, values ...string) {
	switch kind {
	case Keywords:
		n.Keywords = append(n.Keywords, values...)
	case Present:
		n.Present = append(n.Present, values...)
	case Speakers:
		n.Speakers = append(n.Speakers, values...)
	}
}

// MergeKeywords appends each non-empty keyword not already present.
func (n *Note) MergeKeywords(keywords ...string) {
	for _, kw := range keywords {
		if kw == "" || contains(n.Keywords, kw) {
			continue
		}
		n.Keywords = append(n.Keywords, kw)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
