package records

// Side names one of the two linked feeds.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Identity carries the raw identifying strings of a record and the fields the
// normalizer derives from them. Derived fields are empty (or zero) until the
// record is normalized.
type Identity struct {
	RawName string
	RawClub string
	RawDOB  string
	RawAge  string

	Name               string
	NameKey            string
	FirstLast          string
	Club               string
	DOB                string
	BirthYear          int
	BirthYearEstimated bool
}

// HasName reports whether the normalized name is usable for matching.
func (id Identity) HasName() bool {
	return id.Name != ""
}

// PerformanceRecord is a row of the performance-statistics feed (left side).
type PerformanceRecord struct {
	Row         int
	ID          string
	Identity    Identity
	Nationality string
	Position    string
	// Values holds every raw input cell in header order.
	Values []string
}

// ValuationRecord is a row of the market-valuation feed (right side).
type ValuationRecord struct {
	Row         int
	ExternalID  string
	Identity    Identity
	MarketValue int64
	HasValue    bool
	Age         int
	LastUpdate  string
}

// LeftTable is the ingested performance feed with its original header.
type LeftTable struct {
	Header  []string
	Records []PerformanceRecord
}

// DedupeByID drops records whose ID repeats an earlier record, keeping the
// first occurrence, and returns how many were dropped. Linking runs on the
// deduplicated table so a discarded row can never claim a right record.
func (t *LeftTable) DedupeByID() int {
	if t == nil || len(t.Records) < 2 {
		return 0
	}
	seen := make(map[string]struct{}, len(t.Records))
	kept := t.Records[:0]
	for _, rec := range t.Records {
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		kept = append(kept, rec)
	}
	dropped := len(t.Records) - len(kept)
	clear(t.Records[len(kept):])
	t.Records = kept
	return dropped
}

// RightTable is the ingested valuation feed with its original header.
type RightTable struct {
	Header  []string
	Records []ValuationRecord
}
