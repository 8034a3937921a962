package dates

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseSince parses a lower bound for listing notes. It accepts a date
// token (20220201), an ISO date (2022-02-01), the keywords today and
// yesterday, or English phrases such as "last week" or "3 days ago".
// Explicit dates resolve to the start of that day.
func ParseSince(arg string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(arg)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := ParseToken(s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}

	switch strings.ToLower(s) {
	case "today":
		return StartOfDay(now), nil
	case "yesterday":
		return StartOfDay(now).AddDate(0, 0, -1), nil
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", arg, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("invalid date %q", arg)
	}
	return r.Time, nil
}
