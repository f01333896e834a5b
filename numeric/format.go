package numeric

import "strings"

const (
	// USDDecimals is the number of fractional digits shown for dollar amounts.
	USDDecimals = 2
	// BTCDecimals is the number of fractional digits shown for bitcoin amounts, one satoshi.
	BTCDecimals = 8
)

// IsEuropean reports whether raw uses the comma as its decimal separator, as
// in "1.234,56" or "0,5". Raw is the text as the user typed it.
func IsEuropean(raw string) bool {
	s := stripSpaces(raw)
	if classify(s) != decimalComma {
		return false
	}
	comma := strings.LastIndex(s, ",")
	return strings.Count(s, ",") == 1 || strings.Contains(s[:comma], ".")
}

// FormatForDisplay groups the integer part of a canonical value and truncates
// its fractional part to maxDecimals digits (no rounding).
//
// The convention is taken from hint, the raw text the user typed: a European
// hint gives "1.234,56", anything else gives "1,234.56". A trailing decimal
// point is kept so the user can keep typing. Text that is not a canonical
// number is returned unchanged.
func FormatForDisplay(value, hint string, maxDecimals int) string {
	if value == "" || value == "." || value == "," {
		return value
	}
	if !canonicalRE.MatchString(value) || !hasDigit(value) {
		return value
	}

	group, point := ",", "."
	if IsEuropean(hint) {
		group, point = ".", ","
	}

	sign := ""
	if strings.HasPrefix(value, "-") {
		sign, value = "-", value[1:]
	}
	intPart, frac, _ := strings.Cut(value, ".")
	if intPart == "" {
		intPart = "0"
	}
	if maxDecimals >= 0 && len(frac) > maxDecimals {
		frac = frac[:maxDecimals]
	}

	out := sign + groupThousands(intPart, group)
	switch {
	case frac != "":
		out += point + frac
	case strings.HasSuffix(value, "."):
		out += point
	}
	return out
}

// FormatUSDForDisplay formats raw as a dollar amount with two decimals at most,
// "$1,234.56" or "-$1,234.56". Raw is normalized first. Text that is not a
// number is returned unchanged.
func FormatUSDForDisplay(raw, hint string) string {
	if raw == "" || raw == "." || raw == "," {
		return raw
	}
	s := Normalize(raw)
	if s == "" || s == "." || !hasDigit(s) {
		return raw
	}
	if hint == "" {
		hint = raw
	}
	out := FormatForDisplay(s, hint, USDDecimals)
	if strings.HasPrefix(out, "-") {
		return "-$" + out[1:]
	}
	return "$" + out
}

// FormatBTCForDisplay formats raw as a bitcoin amount with eight decimals at most.
func FormatBTCForDisplay(raw, hint string) string {
	if raw == "" || raw == "." || raw == "," {
		return raw
	}
	s := Normalize(raw)
	if !hasDigit(s) {
		return raw
	}
	if hint == "" {
		hint = raw
	}
	return FormatForDisplay(s, hint, BTCDecimals)
}

// groupThousands inserts sep every three digits from the right.
func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
