package note

import "strings"

// Section is a named block of note text introduced by a "## " heading.
type Section struct {
	Heading string
	Data    string
}

// NewSection trims surrounding whitespace from data.
func NewSection(heading, data string) Section {
	return Section{Heading: heading, Data: strings.TrimSpace(data)}
}

// Sections is an insertion-ordered set of sections keyed by heading.
//
// Setting an existing heading replaces its data but keeps the position of
// the first insertion. The zero value is ready to use.
type Sections struct {
	entries []Section
	byName  map[string]int
}

// Set stores data under heading. Empty headings are rejected and Set
// reports false.
func (s *Sections) Set(heading, data string) bool {
	if heading == "" {
		return false
	}
	if s.byName == nil {
		s.byName = make(map[string]int)
	}
	sec := NewSection(heading, data)
	if i, ok := s.byName[heading]; ok {
		s.entries[i] = sec
		return true
	}
	s.byName[heading] = len(s.entries)
	s.entries = append(s.entries, sec)
	return true
}

// Get returns the section stored under heading.
func (s *Sections) Get(heading string) (Section, bool) {
	i, ok := s.byName[heading]
	if !ok {
		return Section{}, false
	}
	return s.entries[i], true
}

// Remove deletes the section stored under heading and reports whether it
// existed.
func (s *Sections) Remove(heading string) bool {
	i, ok := s.byName[heading]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.byName, heading)
	for j := i; j < len(s.entries); j++ {
		s.byName[s.entries[j].Heading] = j
	}
	return true
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return len(s.entries)
}

// All returns the sections in order. The slice is a copy.
func (s *Sections) All() []Section {
	out := make([]Section, len(s.entries))
	copy(out, s.entries)
	return out
}

// Headings returns the section headings in order.
func (s *Sections) Headings() []string {
	out := make([]string, len(s.entries))
	for i, sec := range s.entries {
		out[i] = sec.Heading
	}
	return out
}
