package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letterReplacer transliterates letters that carry no combining mark after
// NFD decomposition.
var letterReplacer = strings.NewReplacer(
	"ø", "o",
	"ł", "l",
	"đ", "d",
	"ð", "d",
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
	"ı", "i",
	"ħ", "h",
)

// Fold lowercases text with Unicode case folding, strips diacritics and drops
// any rune that is still outside printable ASCII. Whitespace runs are kept as
// single spaces; the result is trimmed.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	folded := cases.Fold().String(text)
	folded = letterReplacer.Replace(folded)
	stripped, _, err := transform.String(stripMarks(), folded)
	if err != nil {
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case r > unicode.MaxASCII || r < ' ':
			continue
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripMarks builds a fresh transformer per call; transform chains keep state
// and must not be shared between goroutines.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
