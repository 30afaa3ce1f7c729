package cheatsheet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// generationalSuffixes are detached from the end of a name so "Michael
// Pittman Jr." and "Michael Pittman" normalize to the same clean name.
var generationalSuffixes = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
	"v":   true,
}

// NormalizeName canonicalizes a player name for matching across sources.
// It lower-cases, strips diacritics, drops punctuation and the ranking
// annotations some exports append ("*", "+"), and detaches a trailing
// generational suffix into the second return value. The result is
// idempotent: normalizing a clean name returns it unchanged.
func NormalizeName(raw string) (clean, suffix string) {
	s := stripDiacritics(strings.ToLower(strings.TrimSpace(raw)))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\'' || r == '.' || r == '*' || r == '+' || r == '`':
			// joiners and annotations vanish: "D'Andre" -> "dandre", "T.J." -> "tj"
		case r == '-' || r == ',' || r == '/':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) > 1 && generationalSuffixes[fields[len(fields)-1]] {
		suffix = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " "), suffix
}

// stripDiacritics folds accented letters onto their ASCII base (é -> e).
// The transform chain is built per call; chained transformers carry
// internal buffers and are not safe to share across goroutines.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
