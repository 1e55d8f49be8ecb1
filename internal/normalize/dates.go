package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	minYear = 1900
	maxYear = 2100
)

var (
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[t ].*)?$`)
	numericDatePattern = regexp.MustCompile(`(\d{1,2})[/.](\d{1,2})[/.](\d{4})`)
	monthFirstPattern  = regexp.MustCompile(`^([a-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})`)
	dayFirstPattern    = regexp.MustCompile(`^(\d{1,2})\s+([a-z]+)\.?,?\s+(\d{4})`)
	bareYearPattern    = regexp.MustCompile(`^(\d{4})$`)
	trailingAgePattern = regexp.MustCompile(`\s*\(\d+\)\s*$`)
	agePrefixPattern   = regexp.MustCompile(`^(\d+)`)
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// DOB parses a free-form date of birth. It returns the ISO date and its year;
// a bare year yields ("", year). Impossible calendar dates keep their year
// when it is plausible. Anything else yields ("", 0).
func DOB(raw string) (string, int) {
	text := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	text = strings.ToLower(trailingAgePattern.ReplaceAllString(text, ""))
	if text == "" {
		return "", 0
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		return buildDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		return buildDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := monthFirstPattern.FindStringSubmatch(text); m != nil {
		if month, ok := months[m[1]]; ok {
			return buildDate(atoi(m[3]), int(month), atoi(m[2]))
		}
	}
	if m := dayFirstPattern.FindStringSubmatch(text); m != nil {
		if month, ok := months[m[2]]; ok {
			return buildDate(atoi(m[3]), int(month), atoi(m[1]))
		}
	}
	if m := bareYearPattern.FindStringSubmatch(text); m != nil {
		if year := atoi(m[1]); plausibleYear(year) {
			return "", year
		}
	}
	return "", 0
}

// Age returns the integer prefix of an age cell ("22-105" -> 22) or 0.
func Age(raw string) int {
	m := agePrefixPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0
	}
	age := atoi(m[1])
	if age <= 0 || age > 99 {
		return 0
	}
	return age
}

// AgeAt returns completed years between an ISO birth date and ref, or 0 when
// dob is empty or later than ref.
func AgeAt(dob string, ref time.Time) int {
	born, err := time.Parse(time.DateOnly, dob)
	if err != nil || ref.IsZero() || born.After(ref) {
		return 0
	}
	age := ref.Year() - born.Year()
	if ref.Month() < born.Month() || (ref.Month() == born.Month() && ref.Day() < born.Day()) {
		age--
	}
	return age
}

func buildDate(year, month, day int) (string, int) {
	if !plausibleYear(year) {
		return "", 0
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", year
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Month() != time.Month(month) || t.Day() != day {
		return "", year
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), year
}

func plausibleYear(year int) bool {
	return year >= minYear && year <= maxYear
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
