package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/eventdesk/pkg/domain"
)

// eventDateLayout is how event dates are shown in the list and modal.
const eventDateLayout = "Mon Jan 2 2006 15:04"

// formatDate renders an event date in local time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(eventDateLayout)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace so descriptions fit a row.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// eventSummary is the plain-text form of an event copied to the clipboard.
func eventSummary(ev domain.Event) string {
	var b strings.Builder
	b.WriteString(ev.Title)
	b.WriteString("\n")
	b.WriteString(formatDate(ev.Date))
	if ev.Location != "" {
		b.WriteString(" @ ")
		b.WriteString(ev.Location)
	}
	if d := oneLine(ev.Description); d != "" {
		b.WriteString("\n")
		b.WriteString(d)
	}
	return b.String()
}
