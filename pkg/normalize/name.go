// Package normalize turns the free-text person names and district labels the
// upstream systems emit into canonical comparison keys. Both transforms are
// deterministic, total functions: they never fail and two spellings of the
// same entity must collide on the same key.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)

	// honorifics are dropped wherever they appear as their own word.
	// Trailing periods are already gone by the time tokens are compared.
	honorifics = map[string]struct{}{
		"delegate":       {},
		"senator":        {},
		"representative": {},
		"del":            {},
		"sen":            {},
		"rep":            {},
		"hon":            {},
		"speaker":        {},
		"dr":             {},
		"mr":             {},
		"mrs":            {},
		"ms":             {},
	}

	// suffixes are generational tokens that vary freely between sources.
	suffixes = map[string]struct{}{
		"jr":  {},
		"sr":  {},
		"ii":  {},
		"iii": {},
		"iv":  {},
	}

	// foldMarks strips combining marks after NFD decomposition, so accented
	// and unaccented spellings of the same surname collide.
	foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Name normalizes a free-text person name into a canonical comparison key:
// lowercase, diacritics folded, honorifics and generational suffixes and
// parentheticals stripped, "Last, First" flipped to "First Last", punctuation
// removed, whitespace collapsed. It never fails; unrecognizable input simply
// produces a key nothing else will collide with.
func Name(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}
	s = parentheticalRe.ReplaceAllString(s, " ")

	// Keep the comma until the Last, First flip has been decided; turn every
	// other punctuation rune into a space so "del." tokenizes as "del".
	s = strings.Map(func(r rune) rune {
		switch {
		case r == ',':
			return r
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, s)

	segments := strings.Split(s, ",")
	for i, seg := range segments {
		segments[i] = dropNoiseTokens(seg)
	}

	if len(segments) == 2 && segments[0] != "" && segments[1] != "" {
		// Single-comma "Last, First" form: flip.
		s = segments[1] + " " + segments[0]
	} else {
		s = strings.Join(segments, " ")
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// dropNoiseTokens removes honorific and suffix tokens from a name segment.
func dropNoiseTokens(seg string) string {
	fields := strings.Fields(seg)
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := honorifics[f]; ok {
			continue
		}
		if _, ok := suffixes[f]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// LastName returns the final token of a normalized name key, or the whole
// key when it is a single token.
func LastName(key string) string {
	if i := strings.LastIndexByte(key, ' '); i >= 0 {
		return key[i+1:]
	}
	return key
}

// FirstName returns the first token of a normalized name key, or "" when the
// key holds only a surname.
func FirstName(key string) string {
	i := strings.IndexByte(key, ' ')
	if i < 0 {
		return ""
	}
	return key[:i]
}

// FirstInitial returns the first byte of the first name, or 0 when the key
// holds only a surname.
func FirstInitial(key string) byte {
	first := FirstName(key)
	if first == "" {
		return 0
	}
	return first[0]
}
