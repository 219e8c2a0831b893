package generate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize lowercases text and splits it on runs of whitespace, commas,
// semicolons and periods. Empty and single-character tokens are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func isSeparator(r rune) bool {
	switch r {
	case ',', ';', '.':
		return true
	}
	return unicode.IsSpace(r)
}
