package cli

import (
	"fmt"
	"time"

	"github.com/aidanlsb/noted/internal/note"
	"github.com/aidanlsb/noted/internal/ui"
)

// noteSummary is the JSON form of an indexed note revision.
type noteSummary struct {
	File      string    `json:"file" yaml:"file"`
	Title     string    `json:"title" yaml:"title"`
	Date      string    `json:"date" yaml:"date"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Keywords  []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Present   []string  `json:"present,omitempty" yaml:"present,omitempty"`
	Speakers  []string  `json:"speakers,omitempty" yaml:"speakers,omitempty"`
}

func summarize(n *note.Note) noteSummary {
	return noteSummary{
		File:      n.Filename,
		Title:     n.Title,
		Date:      n.Date,
		Timestamp: n.Timestamp,
		Keywords:  n.Keywords,
		Present:   n.Present,
		Speakers:  n.Speakers,
	}
}

func summarizeAll(notes []*note.Note) []noteSummary {
	out := make([]noteSummary, len(notes))
	for i, n := range notes {
		out[i] = summarize(n)
	}
	return out
}

// printNotes writes one line per revision: date, title and file, newest
// first as returned by the index.
func (a *app) printNotes(notes []*note.Note, empty string) {
	if len(notes) == 0 {
		fmt.Fprintln(a.out, ui.Hint(empty))
		return
	}

	width := ui.NewDisplayContext().AvailableWidth(40)
	tbl := ui.NewTable(4)
	tbl.SetColumnStyle(0, ui.Muted)
	tbl.SetStyle(3, ui.Hint)
	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}
		tbl.AddRow(n.Date, ui.TruncateWithEllipsis(title, width/2), n.Filename, n.Timestamp.Format("2006-01-02 15:04"))
	}
	fmt.Fprint(a.out, tbl.String())
	fmt.Fprintln(a.out, ui.Hint(ui.Count(len(notes), "revision", "revisions")))
}
