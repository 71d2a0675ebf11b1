// Package format holds display helpers shared by the terminal and web views.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Layouts used for dates and timestamps.
const (
	DateLayout      = "Jan 2, 2006"
	TimestampLayout = "Jan 2, 2006 15:04"
)

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Amount renders a requested amount with thousand separators, e.g. "$12,500.00".
func Amount(amount float64) string {
	if amount < 0 {
		return printer.Sprintf("-$%.2f", -amount)
	}
	return printer.Sprintf("$%.2f", amount)
}

// Count renders an integer with thousand separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Truncate shortens s to maxLen runes, ending in "..." when cut.
func Truncate(s string, maxLen int) string {
	const suffix = "..."
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= len(suffix) {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-len(suffix)]) + suffix
}

// Humanize turns snake_case identifiers into "Title Case" words.
func Humanize(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
}

// Time formats t with layout in local time, or "-" for the zero time.
func Time(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(layout)
}
