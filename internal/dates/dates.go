// Package dates provides the compact YYYYMMDD date tokens used in note
// filenames, plus parsing for the date arguments accepted by the CLI.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// TokenLayout is the time layout of a date token.
const TokenLayout = "20060102"

var tokenRegex = regexp.MustCompile(`^\d{8}$`)

// Token formats t as YYYYMMDD in t's location.
func Token(t time.Time) string {
	return t.Format(TokenLayout)
}

// IsToken reports whether s is eight digits forming a real calendar date.
func IsToken(s string) bool {
	_, err := ParseToken(s)
	return err == nil
}

// ParseToken parses a YYYYMMDD token in the local time zone.
func ParseToken(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !tokenRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date token: %q", s)
	}
	t, err := time.ParseInLocation(TokenLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date token: %q", s)
	}
	return t, nil
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
