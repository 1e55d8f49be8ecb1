package linkage

import (
	"fmt"
	"sort"
	"time"
)

// Method identifiers recorded on committed links.
const (
	MethodNameClubYear    = "name+club+birth_year"
	MethodNameKeyClubYear = "name_key+club+birth_year"
	MethodNameKeyDOB      = "name_key+dob"
	MethodNameKeyYear     = "name_key+birth_year"
	MethodNameClub        = "name+club"
	MethodFuzzyClub       = "fuzzy_club"
	MethodFuzzyGlobal     = "fuzzy_global"
)

// Reasons recorded on unmatched results.
const (
	ReasonMissingName = "missing_name"
	ReasonNoMatch     = "no_match"
)

// DeterministicScore is the score of every cascade link.
const DeterministicScore = 100.0

// MethodNameKeyClubYearShifted names the club-scoped year-tolerant stage.
func MethodNameKeyClubYearShifted(tolerance int) string {
	return fmt.Sprintf("name_key+club+birth_year±%d(unique)", tolerance)
}

// MethodNameKeyYearShifted names the club-free year-tolerant stage.
func MethodNameKeyYearShifted(tolerance int) string {
	return fmt.Sprintf("name_key+birth_year±%d(unique)", tolerance)
}

// LinkResult is the outcome for one left record.
type LinkResult struct {
	Left    int
	LeftID  string
	Right   int
	RightID string
	Method  string
	Score   float64
	Frozen  bool
	Reason  string
}

// Matched reports whether the result links to a right record.
func (r LinkResult) Matched() bool {
	return r.Right >= 0
}

// StageStats summarizes one stage of a run.
type StageStats struct {
	Stage     string
	Proposed  int
	Matched   int
	Remaining int
	Duration  time.Duration
}

// Observer receives stage summaries as a run progresses.
type Observer interface {
	StageCompleted(StageStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(StageStats)

func (f ObserverFunc) StageCompleted(s StageStats) { f(s) }

// Result is the outcome of a run.
type Result struct {
	Links  []LinkResult
	Stages []StageStats
}

// Matched counts linked left records.
func (r *Result) Matched() int {
	n := 0
	for _, link := range r.Links {
		if link.Matched() {
			n++
		}
	}
	return n
}

// Unmatched counts left records without a link.
func (r *Result) Unmatched() int {
	return len(r.Links) - r.Matched()
}

// MethodCount is one line of a method breakdown.
type MethodCount struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

// Breakdown counts links per method, unmatched results grouped under their
// reason. Entries are sorted by descending count, then by name.
func Breakdown(links []LinkResult) []MethodCount {
	counts := make(map[string]int)
	for _, link := range links {
		key := link.Method
		if !link.Matched() {
			key = "unmatched:" + link.Reason
		}
		counts[key]++
	}
	out := make([]MethodCount, 0, len(counts))
	for method, count := range counts {
		out = append(out, MethodCount{Method: method, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Method < out[j].Method
	})
	return out
}
