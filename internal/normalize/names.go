package normalize

import (
	"regexp"
	"strings"

	"playerxref/internal/textutil"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	punctuationPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	clubAtleticoPattern  = regexp.MustCompile(`\bclub\s+atletico\b`)
	clubCAPattern        = regexp.MustCompile(`\bc\.?a\.?\b`)
)

// stopWords are articles and prepositions ignored when building name keys.
var stopWords = map[string]struct{}{
	"de": {}, "del": {}, "da": {}, "do": {}, "das": {}, "dos": {},
	"la": {}, "las": {}, "los": {}, "san": {}, "santa": {},
	"van": {}, "von": {}, "der": {}, "den": {}, "di": {}, "le": {}, "du": {},
}

// Name folds a raw player name: lowercase ASCII, parenthetical text removed,
// punctuation replaced by spaces, whitespace collapsed.
func Name(raw string) string {
	text := textutil.Fold(raw)
	text = parentheticalPattern.ReplaceAllString(text, " ")
	text = punctuationPattern.ReplaceAllString(text, " ")
	return collapse(text)
}

// NameKey reduces a normalized name to "<first initial> <last token>" after
// dropping stop words. A single remaining token is its own key; a name made
// only of stop words keys to itself.
//
// The initial lets "L. Messi" meet "Lionel Messi", at a cost: different
// first names sharing an initial share a key, so "lucas martinez" and
// "lautaro martinez" both key to "l martinez". The club-free
// name_key+birth_year stage links such a pair with score 100 when it is the
// only candidate in its bucket.
func NameKey(name string) string {
	tokens := contentTokens(name)
	switch len(tokens) {
	case 0:
		return name
	case 1:
		return tokens[0]
	default:
		return tokens[0][:1] + " " + tokens[len(tokens)-1]
	}
}

// FirstLast returns the first and last content tokens of a normalized name.
func FirstLast(name string) string {
	tokens := contentTokens(name)
	if len(tokens) == 0 {
		return name
	}
	return textutil.FirstLast(tokens)
}

func contentTokens(name string) []string {
	raw := textutil.Tokenize(name)
	tokens := raw[:0:0]
	for _, token := range raw {
		if _, skip := stopWords[token]; skip {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// foldClub applies name folding plus removal of the "club atletico" and
// "c.a." prefixes. It performs no alias lookup.
func foldClub(raw string) string {
	text := textutil.Fold(raw)
	text = parentheticalPattern.ReplaceAllString(text, " ")
	text = clubAtleticoPattern.ReplaceAllString(text, " ")
	text = clubCAPattern.ReplaceAllString(text, " ")
	text = punctuationPattern.ReplaceAllString(text, " ")
	return collapse(text)
}

func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
