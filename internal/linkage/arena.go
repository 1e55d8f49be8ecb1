package linkage

import (
	"log/slog"

	"playerxref/internal/records"
	"playerxref/internal/textutil"
)

// arena holds the records of one run and the mutable claim state. Claims and
// results change only inside commit.
type arena struct {
	left    []records.PerformanceRecord
	right   []records.ValuationRecord
	index   *Index
	claimed []bool
	results []LinkResult
	pending []int
}

// proposal is the outcome of scoring one pending left record. Right is -1
// when nothing was proposed.
type proposal struct {
	Right  int
	Score  float64
	Reason string
}

var noProposal = proposal{Right: -1}

func newArena(left []records.PerformanceRecord, right []records.ValuationRecord) *arena {
	a := &arena{
		left:    left,
		right:   right,
		index:   NewIndex(right),
		claimed: make([]bool, len(right)),
		results: make([]LinkResult, len(left)),
		pending: make([]int, 0, len(left)),
	}
	for i := range left {
		a.results[i] = LinkResult{Left: i, LeftID: left[i].ID, Right: -1, Reason: ReasonNoMatch}
		if !left[i].Identity.HasName() {
			a.results[i].Reason = ReasonMissingName
			continue
		}
		a.pending = append(a.pending, i)
	}
	return a
}

// commit applies proposals in pending (left row) order. A proposal whose
// right record is already claimed is dropped and the left record stays
// pending. It returns the number of links created.
func (a *arena) commit(method string, proposals []proposal, logger *slog.Logger) int {
	matched := 0
	remaining := a.pending[:0:0]
	for slot, li := range a.pending {
		p := proposals[slot]
		if p.Right < 0 {
			if p.Reason != "" {
				logger.Debug("no link", "left_id", a.left[li].ID, "reason", p.Reason)
			}
			remaining = append(remaining, li)
			continue
		}
		if a.claimed[p.Right] {
			logger.Debug("proposal dropped, right already claimed",
				"left_id", a.left[li].ID, "right_row", p.Right)
			remaining = append(remaining, li)
			continue
		}
		a.claimed[p.Right] = true
		a.results[li] = LinkResult{
			Left:    li,
			LeftID:  a.left[li].ID,
			Right:   p.Right,
			RightID: records.CanonicalID(a.right[p.Right].ExternalID),
			Method:  method,
			Score:   textutil.Round2(p.Score),
			Frozen:  true,
		}
		matched++
	}
	a.pending = remaining
	return matched
}

// unclaimed filters candidates down to unclaimed right indices.
func (a *arena) unclaimed(candidates []int) []int {
	out := make([]int, 0, len(candidates))
	for _, ri := range candidates {
		if !a.claimed[ri] {
			out = append(out, ri)
		}
	}
	return out
}
