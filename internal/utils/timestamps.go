package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for due days.
const DateLayout = "2006-01-02"

// timestampLayouts are tried in order. Layouts without an offset are read as UTC.
// Fractional seconds are accepted after the seconds field by time.Parse even
// when the layout does not mention them.
var timestampLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseTimestamp parses an extended ISO 8601 timestamp. A "Z" suffix is
// normalized to "+00:00". If the first attempt fails, the fractional seconds
// component is stripped (keeping any trailing offset) and parsing is retried.
func ParseTimestamp(s string) (time.Time, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "Z", "+00:00")

	t, err := parseLayouts(normalized)
	if err == nil {
		return t, nil
	}

	if stripped, ok := stripFraction(normalized); ok {
		if t, retryErr := parseLayouts(stripped); retryErr == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
}

// ParseTimestampMillis converts a timestamp string to Unix milliseconds.
// An empty string yields nil without an error.
func ParseTimestampMillis(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	ms := t.UnixMilli()
	return &ms, nil
}

// ParseDateString extracts the YYYY-MM-DD part of a timestamp and checks that
// it is a real calendar date. An empty string yields nil without an error.
func ParseDateString(s string) (*string, error) {
	if s == "" {
		return nil, nil
	}
	datePart, _, _ := strings.Cut(s, "T")
	if _, err := time.Parse(DateLayout, datePart); err != nil {
		return nil, fmt.Errorf("failed to parse date from %q: %w", s, err)
	}
	return &datePart, nil
}

func parseLayouts(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// stripFraction removes ".<digits>" after the seconds field while keeping a
// "+hh:mm", "+hhmm", "-hh:mm" or "-hhmm" offset that follows it.
func stripFraction(s string) (string, bool) {
	base, rest, found := strings.Cut(s, ".")
	if !found {
		return "", false
	}
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		return base + rest[i:], true
	}
	if i := strings.LastIndexByte(rest, '-'); i >= 0 && isOffset(rest[i:]) {
		return base + rest[i:], true
	}
	return base, true
}

// isOffset reports whether s is a signed "hh:mm" or "hhmm" zone offset.
func isOffset(s string) bool {
	digits := strings.Replace(s[1:], ":", "", 1)
	if len(digits) != 4 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
