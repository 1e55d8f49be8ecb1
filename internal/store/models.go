package store

import "time"

// Run describes one persisted linkage run.
type Run struct {
	ID              string
	CreatedAt       time.Time
	LeftPath        string
	RightPath       string
	SeasonYear      int
	LeftRecords     int
	RightRecords    int
	Matched         int
	Unmatched       int
	ThresholdClub   float64
	ThresholdGlobal float64
	AmbiguityMargin float64
	YearTolerance   int
	Duration        time.Duration
}

// MatchRate reports matched rows over all assembled rows.
func (r Run) MatchRate() float64 {
	total := r.Matched + r.Unmatched
	if total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(total)
}

// Link is one persisted link of a run.
type Link struct {
	LeftID      string
	ExternalID  string
	MarketValue int64
	HasValue    bool
	DOB         string
	Age         int
	Method      string
	Score       float64
}
