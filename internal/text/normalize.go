package text

import (
	"html"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
)

// greekAccents folds accented Greek vowels to their unaccented form.
var greekAccents = map[rune]rune{
	'ά': 'α', 'έ': 'ε', 'ή': 'η', 'ί': 'ι', 'ό': 'ο', 'ύ': 'υ', 'ώ': 'ω',
	'ϊ': 'ι', 'ϋ': 'υ', 'ΐ': 'ι', 'ΰ': 'υ',
}

// StripMarkup unescapes HTML entities and drops every tag, keeping only
// text content.
func StripMarkup(s string) string {
	tokenizer := xhtml.NewTokenizer(strings.NewReader(html.UnescapeString(s)))
	var b strings.Builder
	for {
		tt := tokenizer.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		if tt == xhtml.TextToken {
			b.WriteString(tokenizer.Token().Data)
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

// FoldGreekAccents replaces accented Greek vowels with unaccented ones.
func FoldGreekAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := greekAccents[r]; ok {
			return folded
		}
		return r
	}, s)
}

// Normalize strips markup, lowercases, collapses punctuation and symbol
// runs to whitespace, folds Greek accents and collapses whitespace runs to
// a single space. Normalize(Normalize(x)) == Normalize(x): once markup
// characters are stripped out as punctuation, a second pass finds plain
// lowercase words separated by single spaces.
func Normalize(s string) string {
	s = StripMarkup(s)
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return ' '
		}
		return r
	}, s)
	s = FoldGreekAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokens returns the whitespace-separated tokens of the normalized text.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
