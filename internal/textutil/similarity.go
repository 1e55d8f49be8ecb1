package textutil

import (
	"math"
	"strings"
)

// TokenSetRatio scores two strings in [0, 100] comparing their token sets.
//
// With A and B the sorted token sets, I their intersection and DA, DB the
// differences: an empty side scores 0; a shared token set where one side adds
// nothing scores 100; otherwise the result is the best normalized indel
// similarity among (I, I+DA), (I, I+DB) and (I+DA, I+DB). Scores are rounded
// to two decimals.
func TokenSetRatio(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var inter, diffA, diffB []string
	i, j := 0, 0
	for i < len(setA) && j < len(setB) {
		switch {
		case setA[i] == setB[j]:
			inter = append(inter, setA[i])
			i++
			j++
		case setA[i] < setB[j]:
			diffA = append(diffA, setA[i])
			i++
		default:
			diffB = append(diffB, setB[j])
			j++
		}
	}
	diffA = append(diffA, setA[i:]...)
	diffB = append(diffB, setB[j:]...)

	if len(inter) > 0 && (len(diffA) == 0 || len(diffB) == 0) {
		return 100
	}

	sect := strings.Join(inter, " ")
	combinedA := joinNonEmpty(sect, strings.Join(diffA, " "))
	combinedB := joinNonEmpty(sect, strings.Join(diffB, " "))

	best := Ratio(combinedA, combinedB)
	if sect != "" {
		best = math.Max(best, Ratio(sect, combinedA))
		best = math.Max(best, Ratio(sect, combinedB))
	}
	return Round2(best)
}

// Ratio is the normalized indel similarity of two strings in [0, 100]:
// 100 * (|a|+|b| - D) / (|a|+|b|) where D is the insertion/deletion distance.
// Two empty strings score 0.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(ra, rb)
	distance := total - 2*lcs
	return 100 * float64(total-distance) / float64(total)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

func longestCommonSubsequence(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) > len(a) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
