package records

import (
	"math"
	"strconv"
	"strings"
)

var marketValueSuffixes = []struct {
	suffix string
	factor float64
}{
	{"bn", 1e9},
	{"mio", 1e6},
	{"mil", 1e6},
	{"m", 1e6},
	{"th.", 1e3},
	{"th", 1e3},
	{"k", 1e3},
}

// ParseMarketValue converts a valuation cell to whole euros. Plain numbers,
// floats and abbreviated forms such as "€1.5m", "500k" or "€750Th." are
// accepted. The boolean is false for blank or unparsable input.
func ParseMarketValue(raw string) (int64, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.NewReplacer("€", "", "eur", "", " ", "", ",", "").Replace(value)
	if value == "" || value == "-" {
		return 0, false
	}

	factor := 1.0
	for _, s := range marketValueSuffixes {
		if strings.HasSuffix(value, s.suffix) {
			factor = s.factor
			value = strings.TrimSuffix(value, s.suffix)
			break
		}
	}

	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
		return 0, false
	}
	return int64(math.Round(number * factor)), true
}

// CanonicalID trims an identifier and canonicalizes numeric forms so that
// "00123", "123.0" and "123" compare equal. Non-numeric identifiers are only
// trimmed.
func CanonicalID(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return value
}
