// Package numeric turns free-form typed numbers into canonical decimal strings
// and back into grouped display strings.
//
// Users type numbers in two conventions: "1,234.56" (period decimal, comma
// grouping) and "1.234,56" (comma decimal, period grouping), often without any
// grouping at all and often half typed. The canonical form uses a period as
// decimal separator and no grouping: "1234.56".
package numeric

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrNotANumber is returned when a text does not normalize to a number.
var ErrNotANumber = errors.New("not a number")

var (
	canonicalRE = regexp.MustCompile(`^-?\d*\.?\d*$`)
	// usGroupingRE matches integers grouped by commas: "1,234" or "12,345,678".
	// A leading zero is never grouped, so "0,125" stays a comma decimal.
	usGroupingRE = regexp.MustCompile(`^-?[1-9]\d{0,2}(,\d{3})+$`)
)

// separator is how the last comma of a text is read.
type separator int

const (
	noComma      separator = iota
	decimalComma           // "1.234,56": periods group, the comma is the decimal point
	groupComma             // "1,234.56" or "1,234": commas group, the period is the decimal point
	noiseComma             // "12,a" or "12,": nothing can be trusted, drop all separators
)

// classify reads the role of the last comma of s, s has no whitespace.
func classify(s string) separator {
	comma := strings.LastIndex(s, ",")
	if comma < 0 {
		return noComma
	}
	switch {
	case usGroupingRE.MatchString(s):
		return groupComma
	case isDigits(s[comma+1:]):
		return decimalComma
	case strings.LastIndex(s, ".") > comma:
		return groupComma
	default:
		return noiseComma
	}
}

// Normalize returns the canonical decimal form of raw: an optional leading
// minus, digits, and at most one period. It returns "" for an empty text and
// "." for a lone separator, the user being about to type decimals.
//
// Normalize never fails. Garbage is salvaged into digits, so the result may
// still not be a number ("" or "-"); ParseToNumber reports those as NaN.
func Normalize(raw string) string {
	s := stripSpaces(raw)
	if s == "" {
		return ""
	}
	if s == "." || s == "," {
		return "."
	}

	switch classify(s) {
	case decimalComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case groupComma:
		s = strings.ReplaceAll(s, ",", "")
	case noiseComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", "")
	}

	if !canonicalRE.MatchString(s) {
		s = salvage(s)
	}
	return s
}

// salvage keeps digits, a leading minus, and turns the first separator into
// the decimal point. Later separators are dropped so their digits join the
// fractional part.
func salvage(s string) string {
	var b strings.Builder
	point := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		case (r == '.' || r == ',') && !point:
			b.WriteByte('.')
			point = true
		}
	}
	return b.String()
}

// ParseToNumber parses raw as a float64 after normalization.
//
// It returns NaN for empty or unparseable input, never 0: callers must treat
// NaN as a rejected input.
func ParseToNumber(raw string) float64 {
	s := Normalize(raw)
	if !hasDigit(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseDecimal parses raw as an exact decimal after normalization, so that
// amounts keep every typed fractional digit.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := Normalize(raw)
	if !hasDigit(s) {
		return decimal.Zero, fmt.Errorf("%q: %w", raw, ErrNotANumber)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q: %w: %v", raw, ErrNotANumber, err)
	}
	return d, nil
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// isDigits reports whether s is a non empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}
