package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"playerxref/internal/assemble"
	"playerxref/internal/linkage"
)

const defaultListLimit = 20

// SaveRun persists run with its links and unmatched rows in one transaction.
// An empty ID is filled with a new UUID and an empty CreatedAt with the
// current time. Matched and Unmatched are taken from out.
func (s *Store) SaveRun(ctx context.Context, run *Run, out *assemble.Output) error {
	ctx = ensureContext(ctx)
	if run == nil {
		return errors.New("run is nil")
	}
	if out == nil {
		return errors.New("output is nil")
	}
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Matched = out.MatchedCount()
	run.Unmatched = len(out.Unmatched)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			formatTime(run.CreatedAt),
			run.LeftPath,
			run.RightPath,
			run.SeasonYear,
			run.LeftRecords,
			run.RightRecords,
			run.Matched,
			run.Unmatched,
			run.ThresholdClub,
			run.ThresholdGlobal,
			run.AmbiguityMargin,
			run.YearTolerance,
			run.Duration.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		linkStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO links (run_id, left_id, external_id, market_value, dob_resolved, age_resolved, method, score)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare links: %w", err)
		}
		defer linkStmt.Close()
		for _, row := range out.Linked {
			if !row.Matched {
				continue
			}
			if _, err := linkStmt.ExecContext(ctx,
				run.ID,
				row.LeftID,
				row.ExternalID,
				nullInt(row.MarketValue, row.HasValue),
				nullString(row.DOB),
				nullInt(int64(row.Age), row.Age > 0),
				row.Method,
				row.Score,
			); err != nil {
				return fmt.Errorf("insert link %s: %w", row.LeftID, err)
			}
		}

		unmatchedStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO unmatched (run_id, left_id, name, club, born, normalized_name, name_key, normalized_club, birth_year, reason)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare unmatched: %w", err)
		}
		defer unmatchedStmt.Close()
		for _, u := range out.Unmatched {
			if _, err := unmatchedStmt.ExecContext(ctx,
				run.ID,
				u.ID,
				u.Name,
				u.Club,
				u.Born,
				u.NormalizedName,
				u.NameKey,
				u.NormalizedClub,
				nullInt(int64(u.BirthYear), u.BirthYear > 0),
				u.Reason,
			); err != nil {
				return fmt.Errorf("insert unmatched %s: %w", u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit uses the
// default of 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run. A missing run returns nil without error.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// Links returns the persisted links of a run in left ID order.
func (s *Store) Links(ctx context.Context, runID string) ([]Link, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT left_id, external_id, market_value, dob_resolved, age_resolved, method, score
         FROM links WHERE run_id = ? ORDER BY left_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// MethodBreakdown counts the links of a run per method and its unmatched rows
// per reason, ordered like linkage.Breakdown.
func (s *Store) MethodBreakdown(ctx context.Context, runID string) ([]linkage.MethodCount, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT method, COUNT(1) AS n FROM links WHERE run_id = ? GROUP BY method
         UNION ALL
         SELECT 'unmatched:' || reason, COUNT(1) FROM unmatched WHERE run_id = ? GROUP BY reason
         ORDER BY n DESC, method`, runID, runID)
	if err != nil {
		return nil, fmt.Errorf("method breakdown: %w", err)
	}
	defer rows.Close()

	var counts []linkage.MethodCount
	for rows.Next() {
		var c linkage.MethodCount
		if err := rows.Scan(&c.Method, &c.Count); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DeleteRun removes a run and its rows. It reports whether a run existed.
func (s *Store) DeleteRun(ctx context.Context, id string) (bool, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"links", "unmatched"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	return removed > 0, nil
}
