package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file is not an error: nothing has been logged yet.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one slog text handler line split into its parts.
type Entry struct {
	Time  string
	Level string
	Msg   string
	Attrs string
}

// Parse splits a line written by slog's text handler:
//
//	time=2026-04-01T09:00:00.000Z level=INFO msg="stage changed" from=1 to=2
//
// Lines in any other shape come back with only Msg set.
func Parse(line string) Entry {
	rest := strings.TrimSpace(line)
	var e Entry
	var ok bool
	if e.Time, rest, ok = field(rest, "time="); !ok {
		return Entry{Msg: line}
	}
	if e.Level, rest, ok = field(rest, "level="); !ok {
		return Entry{Msg: line}
	}
	if !strings.HasPrefix(rest, "msg=") {
		return Entry{Msg: line}
	}
	rest = strings.TrimPrefix(rest, "msg=")
	if strings.HasPrefix(rest, `"`) {
		end := closingQuote(rest)
		if end < 0 {
			return Entry{Msg: line}
		}
		e.Msg = strings.ReplaceAll(rest[1:end], `\"`, `"`)
		rest = rest[end+1:]
	} else {
		e.Msg, rest, _ = strings.Cut(rest, " ")
	}
	e.Attrs = strings.TrimSpace(rest)
	return e
}

func field(s, prefix string) (string, string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", s, false
	}
	value, rest, _ := strings.Cut(strings.TrimPrefix(s, prefix), " ")
	return value, strings.TrimSpace(rest), true
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
