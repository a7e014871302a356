package ui

import "strings"

// truncate cuts value to limit runes, ending in "..." when there is room.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	switch {
	case limit <= 0 || len(runes) <= limit:
		return value
	case limit <= 3:
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
