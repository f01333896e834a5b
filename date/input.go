package date

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// minYear is the earliest year a purchase can be entered for.
const minYear = 1900

var inputDateRE = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

// ParseInput parses a user typed DD/MM/YYYY date.
//
// It reports false when the text is not a real calendar day, is before 1900, or
// is later than today. Callers must ask the user again, never fall back to a default.
func ParseInput(text string) (Date, bool) {
	return ParseInputAsOf(text, Today())
}

// ParseInputAsOf is like ParseInput, using today as the current calendar day.
func ParseInputAsOf(text string, today Date) (Date, bool) {
	match := inputDateRE.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return Date{}, false
	}
	// The regexp guarantees at most 4 digits, so Atoi cannot fail.
	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])

	if month < 1 || month > 12 {
		return Date{}, false
	}
	if day < 1 || day > 31 {
		return Date{}, false
	}
	if year < minYear || year > today.Year() {
		return Date{}, false
	}

	// New normalizes impossible days (Feb 30 becomes Mar 2), so it must echo the input.
	d := New(year, time.Month(month), day)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return Date{}, false
	}
	if d.After(today) {
		return Date{}, false
	}
	return d, true
}

// Mask formats partially typed text as DD/MM/YYYY while the user types.
//
// Non digits are dropped, at most 8 digits are kept, and slashes are inserted
// after the day and the month.
func Mask(text string) string {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' && digits.Len() < 8 {
			digits.WriteRune(r)
		}
	}
	s := digits.String()

	switch {
	case len(s) > 4:
		return s[:2] + "/" + s[2:4] + "/" + s[4:]
	case len(s) > 2:
		return s[:2] + "/" + s[2:]
	default:
		return s
	}
}
