// Package slug derives URL slugs from page titles.
//
// The output must equal the slug the target platform computes for the same title,
// because rewritten links are resolved against pages that platform created itself.
// Every step below is therefore part of a compatibility contract and runs in a fixed
// order.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into an ASCII base letter plus combining marks.
var transliterations = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'œ': "oe",
	'ø': "o",
	'đ': "d",
	'ð': "d",
	'ħ': "h",
	'ı': "i",
	'ĳ': "ij",
	'ĸ': "k",
	'ł': "l",
	'ŀ': "l",
	'ŉ': "n",
	'ŋ': "n",
	'ŧ': "t",
	'þ': "th",
	'ſ': "s",
}

// Slugify converts text to a lowercase, hyphen separated slug. It never fails:
// input without any usable character yields the empty string. Slugify is
// idempotent.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = transliterate(s)

	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, "@", "at")

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		}
		// Anything else is deleted without ending a separator run.
	}
	return b.String()
}

// transliterate folds s to ASCII. Letters in the table are replaced first, then
// the remainder is decomposed and stripped of combining marks. Whitespace is kept
// as a plain space; any other rune that has no ASCII form is dropped.
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := transliterations[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}

	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r > unicode.MaxASCII && unicode.IsSpace(r) {
				return ' '
			}
			return r
		}),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, b.String())
	if err != nil {
		// The chain only maps and removes runes; it cannot fail on valid input.
		return b.String()
	}
	return out
}
