package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Status symbols. Colour is never used to carry status.
const (
	SymbolCheck   = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolInfo    = "·"
)

func Check(msg string) string {
	return fmt.Sprintf("%s %s", SymbolCheck, msg)
}

func Checkf(format string, args ...interface{}) string {
	return Check(fmt.Sprintf(format, args...))
}

func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, msg)
}

func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

func Infof(format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", SymbolInfo, fmt.Sprintf(format, args...))
}

// Header returns a bold heading line.
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath renders a note file name in the accent colour.
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint renders secondary text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count formats "(n noun)" choosing the singular or plural form.
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}

// TruncateWithEllipsis shortens s to at most width runes.
func TruncateWithEllipsis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:width-1]), func(r rune) bool { return r == ' ' }) + "…"
}
