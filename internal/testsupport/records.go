package testsupport

import (
	"fmt"

	"playerxref/internal/records"
)

// Left builds a raw performance record at the given row. born is placed in
// the born cell; the id is synthesized like ingestion does.
func Left(row int, name, club, born string) records.PerformanceRecord {
	return records.PerformanceRecord{
		Row: row,
		ID:  fmt.Sprintf("row-%d", row+1),
		Identity: records.Identity{
			RawName: name,
			RawClub: club,
			RawDOB:  born,
		},
		Values: []string{name, club, born},
	}
}

// Right builds a raw valuation record at the given row with a market value.
// A value <= 0 leaves the record without a valuation.
func Right(row int, name, club, dob string, value int64) records.ValuationRecord {
	return records.ValuationRecord{
		Row:        row,
		ExternalID: fmt.Sprintf("%d", 1000+row),
		Identity: records.Identity{
			RawName: name,
			RawClub: club,
			RawDOB:  dob,
		},
		MarketValue: max(value, 0),
		HasValue:    value > 0,
	}
}

// LeftHeader is the header matching the Values produced by Left.
func LeftHeader() []string {
	return []string{"Player", "Squad", "Born"}
}

// LeftTable wraps records built with Left into a table.
func LeftTable(recs ...records.PerformanceRecord) *records.LeftTable {
	return &records.LeftTable{Header: LeftHeader(), Records: recs}
}

// RightTable wraps records built with Right into a table.
func RightTable(recs ...records.ValuationRecord) *records.RightTable {
	return &records.RightTable{
		Header:  []string{"player_id", "player_name", "club_name", "dob", "market_value_eur"},
		Records: recs,
	}
}
