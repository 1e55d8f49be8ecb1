package store

import (
	"database/sql"
	"time"
)

const runColumns = "id, created_at, left_path, right_path, season_year, left_records, right_records, matched, unmatched, threshold_club, threshold_global, ambiguity_margin, year_tolerance, duration_ms"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
		durationMs int64
	)
	if err := scanner.Scan(
		&run.ID,
		&createdRaw,
		&run.LeftPath,
		&run.RightPath,
		&run.SeasonYear,
		&run.LeftRecords,
		&run.RightRecords,
		&run.Matched,
		&run.Unmatched,
		&run.ThresholdClub,
		&run.ThresholdGlobal,
		&run.AmbiguityMargin,
		&run.YearTolerance,
		&durationMs,
	); err != nil {
		return nil, err
	}
	run.CreatedAt = parseTime(createdRaw)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return &run, nil
}

func scanLink(scanner interface{ Scan(dest ...any) error }) (Link, error) {
	var (
		link  Link
		value sql.NullInt64
		dob   sql.NullString
		age   sql.NullInt64
	)
	if err := scanner.Scan(&link.LeftID, &link.ExternalID, &value, &dob, &age, &link.Method, &link.Score); err != nil {
		return Link{}, err
	}
	link.MarketValue = value.Int64
	link.HasValue = value.Valid
	link.DOB = dob.String
	link.Age = int(age.Int64)
	return link, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullInt(value int64, valid bool) sql.NullInt64 {
	return sql.NullInt64{Int64: value, Valid: valid}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
