package textutil

import (
	"slices"
	"strings"
)

// Tokenize splits text into whitespace-separated tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// TokenSet returns the sorted, deduplicated tokens of text.
func TokenSet(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

// FirstLast returns the first and last token of tokens joined by a space.
// A single token is returned unchanged.
func FirstLast(tokens []string) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0]
	default:
		return tokens[0] + " " + tokens[len(tokens)-1]
	}
}
