// Package filemeta derives note metadata from a file's name.
//
// Names are expected to look like "bob-20220902-planning.md" or
// "20220902 standup.md", but nothing is required: the heuristic is best
// effort and never fails.
package filemeta

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/aidanlsb/noted/internal/note"
)

// Metadata is what could be learnt from a file name and its mtime.
type Metadata struct {
	Keywords  []string
	Date      string // YYYYMMDD
	Timestamp time.Time
}

// Extract splits the stem of path on "-" (or on spaces when there is no
// dash). A leading non-numeric token becomes a keyword. Numeric tokens are
// concatenated into one keyword, and the remaining non-numeric tokens are
// joined with spaces into another.
func Extract(path string, mtime time.Time) Metadata {
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	sep := " "
	if strings.Contains(stem, "-") {
		sep = "-"
	}
	items := strings.Split(stem, sep)

	meta := Metadata{
		Date:      note.DateFromFilename(name),
		Timestamp: mtime,
	}

	var digits strings.Builder
	var words []string
	for i, item := range items {
		switch {
		case item == "":
		case isNumeric(item):
			digits.WriteString(item)
		case i == 0:
			meta.Keywords = append(meta.Keywords, item)
		default:
			words = append(words, item)
		}
	}

	if d := digits.String(); d != "" {
		meta.Keywords = append(meta.Keywords, d)
	}
	if w := strings.Join(words, " "); w != "" {
		meta.Keywords = append(meta.Keywords, w)
	}
	return meta
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
