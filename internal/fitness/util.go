package fitness

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// dateLayouts lists the accepted timestamp formats, the last ones
// carry no zone info and are read in local time
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 timestamp, with or without a zone offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for i, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: [%s]", s)
}

var workoutTypeAliases = map[string]string{
	"run":      "Running",
	"running":  "Running",
	"bike":     "Cycling",
	"cycling":  "Cycling",
	"swim":     "Swimming",
	"swimming": "Swimming",
	"gym":      "Strength Training",
	"weights":  "Strength Training",
	"yoga":     "Yoga",
	"walk":     "Walking",
	"walking":  "Walking",
}

// ParseWorkoutType normalizes user typed workout type names,
// e.g. "run" -> "Running", "strength training" -> "Strength Training".
func ParseWorkoutType(exerciseType string) string {
	exerciseType = strings.TrimSpace(exerciseType)
	if known, ok := workoutTypeAliases[strings.ToLower(exerciseType)]; ok {
		return known
	}

	return titleCase(strings.Join(strings.Fields(exerciseType), " "))
}

// titleCase uppercases every letter that follows a non-letter and lowercases
// the rest, so "cross-fit" becomes "Cross-Fit" and "5k run" becomes "5K Run".
func titleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			prevLetter = false
		case prevLetter:
			r = unicode.ToLower(r)
		default:
			r = unicode.ToTitle(r)
			prevLetter = true
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// FormatDuration renders minutes as 45m, 1h or 1h 30m.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	remaining := minutes % 60
	if remaining == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, remaining)
}
