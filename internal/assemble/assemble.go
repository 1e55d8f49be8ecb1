package assemble

import (
	"fmt"
	"strconv"
	"time"

	"playerxref/internal/linkage"
	"playerxref/internal/normalize"
	"playerxref/internal/records"
)

// Columns appended to the performance header in the linked table.
var LinkedColumns = []string{"external_id", "market_value", "dob_resolved", "age_resolved", "link_method", "link_score"}

// UnmatchedHeader is the header of the unmatched report.
var UnmatchedHeader = []string{"id", "name", "club", "born", "normalized_name", "name_key", "first_last", "normalized_club", "birth_year", "reason"}

// Options controls value resolution.
type Options struct {
	// ReferenceDate is used to compute ages from resolved birth dates.
	ReferenceDate time.Time
}

// LinkedRow is one performance record with the resolved valuation fields.
type LinkedRow struct {
	LeftID      string
	Cells       []string
	Matched     bool
	ExternalID  string
	MarketValue int64
	HasValue    bool
	DOB         string
	Age         int
	Method      string
	Score       float64
	Reason      string // unmatched rows only
}

// UnmatchedRow is the identifying subset of an unlinked performance record.
type UnmatchedRow struct {
	ID             string
	Name           string
	Club           string
	Born           string
	NormalizedName string
	NameKey        string
	FirstLast      string
	NormalizedClub string
	BirthYear      int
	Reason         string
}

// Output is the assembled result of a run.
type Output struct {
	Header    []string
	Linked    []LinkedRow
	Unmatched []UnmatchedRow
}

// Assemble merges links into the performance table. Rows keep left order.
// Left IDs must be unique; see records.LeftTable.DedupeByID.
func Assemble(left *records.LeftTable, right *records.RightTable, links []linkage.LinkResult, opts Options) (*Output, error) {
	if left == nil {
		return nil, records.Wrap(records.ErrValidation, "assemble", "validate inputs", "left table is nil", nil)
	}
	if len(links) != len(left.Records) {
		return nil, records.Wrap(records.ErrValidation, "assemble", "validate inputs",
			fmt.Sprintf("%d links for %d left records", len(links), len(left.Records)), nil)
	}
	var rightRecords []records.ValuationRecord
	if right != nil {
		rightRecords = right.Records
	}

	out := &Output{
		Header: append(append([]string{}, left.Header...), LinkedColumns...),
		Linked: make([]LinkedRow, 0, len(left.Records)),
	}
	seen := make(map[string]struct{}, len(left.Records))
	for i, rec := range left.Records {
		if _, dup := seen[rec.ID]; dup {
			return nil, records.Wrap(records.ErrValidation, "assemble", "validate inputs",
				fmt.Sprintf("duplicate left id %q", rec.ID), nil)
		}
		seen[rec.ID] = struct{}{}

		link := links[i]
		row := LinkedRow{
			LeftID: rec.ID,
			Cells:  padCells(rec.Values, len(left.Header)),
			DOB:    rec.Identity.DOB,
		}
		if link.Matched() {
			if link.Right >= len(rightRecords) {
				return nil, records.Wrap(records.ErrValidation, "assemble", "resolve link",
					fmt.Sprintf("right index %d out of range", link.Right), nil)
			}
			r := rightRecords[link.Right]
			row.Matched = true
			row.ExternalID = records.CanonicalID(r.ExternalID)
			row.MarketValue = r.MarketValue
			row.HasValue = r.HasValue
			row.Method = link.Method
			row.Score = link.Score
			if r.Identity.DOB != "" {
				row.DOB = r.Identity.DOB
			}
			row.Age = r.Age
		} else {
			u := unmatchedRow(rec, link.Reason)
			row.Reason = u.Reason
			out.Unmatched = append(out.Unmatched, u)
		}
		if row.Age == 0 {
			row.Age = normalize.AgeAt(row.DOB, opts.ReferenceDate)
		}
		out.Linked = append(out.Linked, row)
	}
	return out, nil
}

func unmatchedRow(rec records.PerformanceRecord, reason string) UnmatchedRow {
	if reason == "" {
		reason = linkage.ReasonNoMatch
	}
	id := rec.Identity
	return UnmatchedRow{
		ID:             rec.ID,
		Name:           id.RawName,
		Club:           id.RawClub,
		Born:           id.RawDOB,
		NormalizedName: id.Name,
		NameKey:        id.NameKey,
		FirstLast:      id.FirstLast,
		NormalizedClub: id.Club,
		BirthYear:      id.BirthYear,
		Reason:         reason,
	}
}

func padCells(values []string, width int) []string {
	cells := make([]string, width)
	copy(cells, values)
	return cells
}

// Breakdown counts linked rows per method and unmatched rows per reason.
func (o *Output) Breakdown() []linkage.MethodCount {
	links := make([]linkage.LinkResult, 0, len(o.Linked))
	for _, row := range o.Linked {
		if row.Matched {
			links = append(links, linkage.LinkResult{Method: row.Method})
			continue
		}
		links = append(links, linkage.LinkResult{Right: -1, Reason: row.Reason})
	}
	return linkage.Breakdown(links)
}

// MatchedCount reports the number of linked rows.
func (o *Output) MatchedCount() int {
	n := 0
	for _, row := range o.Linked {
		if row.Matched {
			n++
		}
	}
	return n
}

// LinkedRecords renders the linked table body as strings.
func (o *Output) LinkedRecords() [][]string {
	rows := make([][]string, 0, len(o.Linked))
	for _, row := range o.Linked {
		rows = append(rows, row.Record())
	}
	return rows
}

// Record renders the row as linked-table cells. Absent values are empty.
func (r LinkedRow) Record() []string {
	cells := append([]string{}, r.Cells...)
	value, age, score := "", "", ""
	if r.HasValue {
		value = strconv.FormatInt(r.MarketValue, 10)
	}
	if r.Age > 0 {
		age = strconv.Itoa(r.Age)
	}
	if r.Matched {
		score = formatScore(r.Score)
	}
	return append(cells, r.ExternalID, value, r.DOB, age, r.Method, score)
}

// UnmatchedRecords renders the unmatched report body as strings.
func (o *Output) UnmatchedRecords() [][]string {
	rows := make([][]string, 0, len(o.Unmatched))
	for _, u := range o.Unmatched {
		year := ""
		if u.BirthYear > 0 {
			year = strconv.Itoa(u.BirthYear)
		}
		rows = append(rows, []string{u.ID, u.Name, u.Club, u.Born, u.NormalizedName, u.NameKey, u.FirstLast, u.NormalizedClub, year, u.Reason})
	}
	return rows
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
