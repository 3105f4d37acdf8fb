package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// districtPrefixRe matches the labels sources prepend to district
	// numbers: chamber codes, the word "district", and a leading state
	// abbreviation. The prefix must be followed by a separator or a digit
	// so that free-text keys like "VAUGHN" survive intact. Applied
	// repeatedly so "VA HD-07" sheds both layers.
	districtPrefixRe = regexp.MustCompile(`(?i)^(?:hd|sd|cd|district|va)(?:[\s.-]+|(\d))`)

	// trailingDigitsRe captures the last run of digits in the value.
	trailingDigitsRe = regexp.MustCompile(`(\d+)\D*$`)

	leadingZerosRe = regexp.MustCompile(`^0+(\d)`)
)

// District normalizes a district identifier into a canonical key. It accepts
// whatever the upstream handed over: a string, an int, or the float64 that
// encoding/json produces for bare numbers.
//
// Numeric identifiers reduce to their digits with leading zeros stripped, so
// "HD-07", "District 7", 7, and "07" all yield "7". A value with no digits at
// all keeps its cleaned, uppercased text as the key: callers must treat a
// non-numeric key as a distinct, legitimate bucket rather than an error.
func District(raw any) string {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case nil:
		return ""
	default:
		s = fmt.Sprint(v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	cleaned := s
	for {
		// "$1" keeps the digit when the prefix ran straight into the number.
		next := districtPrefixRe.ReplaceAllString(cleaned, "$1")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	if m := trailingDigitsRe.FindStringSubmatch(cleaned); m != nil {
		digits := leadingZerosRe.ReplaceAllString(m[1], "$1")
		return digits
	}

	// No digits anywhere: the cleaned text is the key.
	return strings.ToUpper(whitespaceRe.ReplaceAllString(strings.TrimSpace(cleaned), " "))
}
