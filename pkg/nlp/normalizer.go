package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, folds accents, deletes every rune that is not a
// letter, digit or whitespace and splits the rest on whitespace.
func Normalize(text string) []string {
	if text == "" {
		return []string{}
	}

	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, folded)

	tokens := strings.Fields(cleaned)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

// NormalizeKeyword applies Normalize to a keyword or phrase and rejoins it with
// single spaces.
func NormalizeKeyword(keyword string) string {
	return strings.Join(Normalize(keyword), " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
