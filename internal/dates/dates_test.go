package dates

import (
	"testing"
	"time"
)

func TestIsToken(t *testing.T) {
	valid := []string{"20220201", "20241231", "20000615"}
	for _, d := range valid {
		if !IsToken(d) {
			t.Fatalf("expected %q to be valid", d)
		}
	}

	invalid := []string{"2022-02-01", "2022020", "202202011", "20221301", "20220230", "notadate", ""}
	for _, d := range invalid {
		if IsToken(d) {
			t.Fatalf("expected %q to be invalid", d)
		}
	}
}

func TestToken(t *testing.T) {
	ts := time.Date(2022, time.September, 2, 23, 59, 0, 0, time.UTC)
	if got := Token(ts); got != "20220902" {
		t.Errorf("Token() = %q, want 20220902", got)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2025, time.February, 12, 15, 4, 5, 0, time.Local)

	tests := []struct {
		arg  string
		want time.Time
	}{
		{"20250201", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)},
		{"2025-02-01", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local)},
		{"today", time.Date(2025, time.February, 12, 0, 0, 0, 0, time.Local)},
		{"Yesterday", time.Date(2025, time.February, 11, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		got, err := ParseSince(tt.arg, now)
		if err != nil {
			t.Fatalf("ParseSince(%q) error: %v", tt.arg, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseSince(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}

	t.Run("natural language", func(t *testing.T) {
		got, err := ParseSince("3 days ago", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Before(now) {
			t.Errorf("expected a time before now, got %v", got)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := ParseSince("", now); err == nil {
			t.Error("expected error for empty input")
		}
		if _, err := ParseSince("xyzzy", now); err == nil {
			t.Error("expected error for unparseable input")
		}
	})
}
