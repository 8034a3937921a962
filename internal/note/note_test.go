package note

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/noted/internal/dates"
)

func TestSections(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		var s Sections
		s.Set("Agenda", "one")
		s.Set("Notes", "two")
		s.Set("Actions", "three")

		want := []string{"Agenda", "Notes", "Actions"}
		if diff := cmp.Diff(want, s.Headings()); diff != "" {
			t.Errorf("headings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overwrite keeps first position", func(t *testing.T) {
		var s Sections
		s.Set("Agenda", "one")
		s.Set("Notes", "two")
		s.Set("Agenda", "  replaced  ")

		if s.Len() != 2 {
			t.Fatalf("expected 2 sections, got %d", s.Len())
		}
		got := s.All()
		if got[0].Heading != "Agenda" || got[0].Data != "replaced" {
			t.Errorf("expected Agenda=replaced first, got %+v", got[0])
		}
	})

	t.Run("empty heading rejected", func(t *testing.T) {
		var s Sections
		if s.Set("", "data") {
			t.Error("expected empty heading to be rejected")
		}
		if s.Len() != 0 {
			t.Errorf("expected no sections, got %d", s.Len())
		}
	})

	t.Run("remove reindexes later sections", func(t *testing.T) {
		var s Sections
		s.Set("a", "1")
		s.Set("b", "2")
		s.Set("c", "3")

		if !s.Remove("a") {
			t.Fatal("expected remove to succeed")
		}
		if s.Remove("a") {
			t.Error("expected second remove to report false")
		}
		sec, ok := s.Get("c")
		if !ok || sec.Data != "3" {
			t.Errorf("expected c=3 after removal, got %+v ok=%v", sec, ok)
		}
		s.Set("c", "4")
		if diff := cmp.Diff([]string{"b", "c"}, s.Headings()); diff != "" {
			t.Errorf("headings mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDateFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"2022-bob-20220201-meeting.md", "20220201"},
		{"bob-20220902.md", "20220902"},
		{"notes/20210101.md", "20210101"},
	}
	for _, tt := range tests {
		if got := DateFromFilename(tt.name); got != tt.want {
			t.Errorf("DateFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if got, want := DateFromFilename("bob.md"), dates.Token(time.Now()); got != want {
		t.Errorf("expected today's date %q, got %q", want, got)
	}
}

func TestMergeKeywords(t *testing.T) {
	n := New("title", "bob-20220902.md")
	n.Keywords = []string{"bob"}
	n.MergeKeywords("bob", "", "20220902", "meeting")

	want := []string{"bob", "20220902", "meeting"}
	if diff := cmp.Diff(want, n.Keywords); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestTags(t *testing.T) {
	n := New("title", "")
	n.AppendTags(Present, "ann", "bob")
	n.AppendTags(Speakers, "ann")
	n.AppendTags(TagKind("bogus"), "ignored")

	if diff := cmp.Diff([]string{"ann", "bob"}, n.Tags(Present)); diff != "" {
		t.Errorf("present mismatch (-want +got):\n%s", diff)
	}
	if len(n.Tags(Keywords)) != 0 {
		t.Errorf("expected no keywords, got %v", n.Keywords)
	}
	if TagKind("bogus").Valid() {
		t.Error("expected bogus tag kind to be invalid")
	}
}
