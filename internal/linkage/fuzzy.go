package linkage

import (
	"fmt"
	"sort"

	"playerxref/internal/textutil"
)

// Scorer returns a similarity in [0, 100] between two normalized names.
type Scorer func(a, b string) float64

// fuzzySelection mirrors the best/second-best bookkeeping of a scored pool.
type fuzzySelection struct {
	Best       int
	BestScore  float64
	Second     float64
	HasSecond  bool
	Candidates int
}

func selectBest(name string, pool []int, a *arena, score Scorer) fuzzySelection {
	sel := fuzzySelection{Best: -1, BestScore: -1, Second: -1}
	for _, ri := range pool {
		s := textutil.Round2(score(name, a.right[ri].Identity.Name))
		sel.Candidates++
		if s > sel.BestScore {
			if sel.Best >= 0 {
				sel.Second = sel.BestScore
				sel.HasSecond = true
			}
			sel.BestScore = s
			sel.Best = ri
			continue
		}
		if !sel.HasSecond || s > sel.Second {
			sel.Second = s
			sel.HasSecond = true
		}
	}
	return sel
}

// clubPartition buckets unclaimed right records by normalized club, in row
// order.
func clubPartition(a *arena) map[string][]int {
	buckets := make(map[string][]int)
	for ri := range a.right {
		id := a.right[ri].Identity
		if a.claimed[ri] || !id.HasName() || id.Club == "" {
			continue
		}
		buckets[id.Club] = append(buckets[id.Club], ri)
	}
	return buckets
}

type nameYear struct {
	nameKey string
	year    int
}

// yearPartition buckets unclaimed right records by birth year after
// collapsing records that share (name_key, birth_year) to one
// representative: highest market value, then lowest row.
func yearPartition(a *arena) map[int][]int {
	reps := make(map[nameYear]int)
	for ri := range a.right {
		id := a.right[ri].Identity
		if a.claimed[ri] || !id.HasName() || id.BirthYear == 0 {
			continue
		}
		key := nameYear{nameKey: id.NameKey, year: id.BirthYear}
		current, ok := reps[key]
		if !ok || preferRepresentative(a, ri, current) {
			reps[key] = ri
		}
	}
	buckets := make(map[int][]int)
	for key, ri := range reps {
		buckets[key.year] = append(buckets[key.year], ri)
	}
	for year := range buckets {
		sort.Ints(buckets[year])
	}
	return buckets
}

func preferRepresentative(a *arena, candidate, current int) bool {
	cv, cur := valueRank(a, candidate), valueRank(a, current)
	if cv != cur {
		return cv > cur
	}
	return candidate < current
}

func valueRank(a *arena, ri int) int64 {
	if !a.right[ri].HasValue {
		return -1
	}
	return a.right[ri].MarketValue
}

// proposeFuzzyClub scores the left record against its club bucket and keeps
// the best candidate when it reaches the club threshold.
func proposeFuzzyClub(a *arena, li int, buckets map[string][]int, opts Options) proposal {
	id := a.left[li].Identity
	if id.Club == "" {
		return noProposal
	}
	pool := buckets[id.Club]
	if len(pool) == 0 {
		return noProposal
	}
	sel := selectBest(id.Name, pool, a, opts.Scorer)
	if sel.BestScore < opts.ThresholdClub {
		return proposal{Right: -1, Reason: fmt.Sprintf("club score %.2f below threshold", sel.BestScore)}
	}
	return proposal{Right: sel.Best, Score: sel.BestScore}
}

// proposeFuzzyGlobal scores the left record against the birth-year window
// and applies the threshold and the top-2 ambiguity margin.
func proposeFuzzyGlobal(a *arena, li int, buckets map[int][]int, opts Options) proposal {
	id := a.left[li].Identity
	if id.BirthYear == 0 {
		return noProposal
	}
	var pool []int
	for year := id.BirthYear - opts.YearTolerance; year <= id.BirthYear+opts.YearTolerance; year++ {
		pool = append(pool, buckets[year]...)
	}
	if len(pool) == 0 {
		return noProposal
	}
	sort.Ints(pool)

	sel := selectBest(id.Name, pool, a, opts.Scorer)
	if sel.BestScore < opts.ThresholdGlobal {
		return proposal{Right: -1, Reason: fmt.Sprintf("global score %.2f below threshold", sel.BestScore)}
	}
	if sel.HasSecond && textutil.Round2(sel.BestScore-sel.Second) < opts.AmbiguityMargin {
		return proposal{Right: -1, Reason: fmt.Sprintf("ambiguous: best %.2f second %.2f", sel.BestScore, sel.Second)}
	}
	return proposal{Right: sel.Best, Score: sel.BestScore}
}
