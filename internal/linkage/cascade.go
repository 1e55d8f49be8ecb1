package linkage

import "fmt"

// keyStage is one deterministic cascade stage.
type keyStage struct {
	method string
	kind   KeyKind
	// shifted stages look up birth years y±1..y±tolerance (never y itself)
	// and require the candidate to be unique across the whole right table.
	shifted bool
}

func cascadeStages(tolerance int) []keyStage {
	stages := []keyStage{
		{method: MethodNameClubYear, kind: KeyNameClubYear},
		{method: MethodNameKeyClubYear, kind: KeyNameKeyClubYear},
		{method: MethodNameKeyClubYearShifted(tolerance), kind: KeyNameKeyClubYear, shifted: true},
		{method: MethodNameKeyDOB, kind: KeyNameKeyDOB},
		{method: MethodNameKeyYear, kind: KeyNameKeyYear},
		{method: MethodNameKeyYearShifted(tolerance), kind: KeyNameKeyYear, shifted: true},
		{method: MethodNameClub, kind: KeyNameClub},
	}
	if tolerance > 0 {
		return stages
	}
	out := stages[:0]
	for _, s := range stages {
		if !s.shifted {
			out = append(out, s)
		}
	}
	return out
}

// propose returns the single candidate for left record li, or no proposal
// when the key is missing, the bucket is empty or it is ambiguous.
func (s keyStage) propose(a *arena, li int, tolerance int) proposal {
	if s.shifted {
		return s.proposeShifted(a, li, tolerance)
	}
	key, ok := KeyFor(s.kind, a.left[li].Identity, 0)
	if !ok {
		return noProposal
	}
	candidates := a.unclaimed(a.index.Lookup(key))
	switch len(candidates) {
	case 0:
		return noProposal
	case 1:
		return proposal{Right: candidates[0], Score: DeterministicScore}
	default:
		return proposal{Right: -1, Reason: fmt.Sprintf("ambiguous bucket (%d candidates)", len(candidates))}
	}
}

// proposeShifted unions the whole-table buckets of every shifted year. The
// left record links only when exactly one distinct right record appears
// across all shifts and that record is still unclaimed.
func (s keyStage) proposeShifted(a *arena, li int, tolerance int) proposal {
	var (
		candidate = -1
		distinct  = 0
	)
	for d := 1; d <= tolerance; d++ {
		for _, offset := range [2]int{-d, d} {
			key, ok := KeyFor(s.kind, a.left[li].Identity, offset)
			if !ok {
				return noProposal
			}
			// a right record has one birth year, so buckets never overlap
			bucket := a.index.Lookup(key)
			if len(bucket) > 0 {
				candidate = bucket[0]
				distinct += len(bucket)
			}
		}
	}
	switch {
	case distinct == 0:
		return noProposal
	case distinct > 1:
		return proposal{Right: -1, Reason: fmt.Sprintf("shifted key not unique (%d candidates)", distinct)}
	case a.claimed[candidate]:
		return proposal{Right: -1, Reason: "unique shifted candidate already claimed"}
	default:
		return proposal{Right: candidate, Score: DeterministicScore}
	}
}
