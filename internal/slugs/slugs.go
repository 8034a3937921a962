// Package slugs turns note titles into file names.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// Slug converts a title to a lowercase, dash-separated slug.
func Slug(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	return slugged
}

// Filename returns "<slug>-<date><ext>" for a new note, for example
// "weekly-sync-20220201.md". Date is a YYYYMMDD token. A title that
// slugifies to nothing yields "<date><ext>".
func Filename(title, date, ext string) string {
	if ext == "" {
		ext = ".md"
	}
	s := Slug(title)
	if s == "" {
		return date + ext
	}
	return s + "-" + date + ext
}
