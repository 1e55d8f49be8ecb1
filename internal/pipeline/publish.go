package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"playerxref/internal/logging"
	"playerxref/internal/records"
	"playerxref/internal/store"
)

const lockFileName = ".playerxref.lock"

// PublishOptions selects what Publish writes.
type PublishOptions struct {
	// OutputDir defaults to paths.output_dir.
	OutputDir string
	JSON      bool
	// SQLite and MetricsFile default to the export section of the config.
	SQLite      bool
	MetricsFile string
}

// Published lists what Publish produced.
type Published struct {
	Files       []string
	MetricsFile string
	RunStored   bool
}

// Publish writes the report outputs while holding an exclusive lock on the
// output directory, then exports metrics and the audit row.
func (r *Runner) Publish(ctx context.Context, report *Report, opts PublishOptions) (*Published, error) {
	if report == nil || report.Output == nil {
		return nil, records.Wrap(records.ErrValidation, "pipeline", "publish", "report is empty", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)

	dir := strings.TrimSpace(opts.OutputDir)
	if dir == "" {
		dir = r.cfg.Paths.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, records.Wrap(records.ErrIO, "pipeline", "create output dir", dir, err)
	}

	lockPath := filepath.Join(dir, lockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, records.Wrap(records.ErrIO, "pipeline", "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, records.Wrap(records.ErrIO, "pipeline", "acquire lock",
			fmt.Sprintf("output directory %s is in use by another run", dir), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}()

	files, err := report.Output.WriteFiles(dir, opts.JSON)
	if err != nil {
		return nil, err
	}
	published := &Published{Files: files}
	logger.Info("outputs written", logging.String("output_dir", dir), logging.Int("files", len(files)))

	metricsFile := strings.TrimSpace(opts.MetricsFile)
	if metricsFile == "" {
		metricsFile = r.cfg.Export.MetricsFile
	}
	if metricsFile != "" && r.recorder != nil {
		if err := r.recorder.WriteTextfile(metricsFile); err != nil {
			return published, err
		}
		published.MetricsFile = metricsFile
	}

	if opts.SQLite || r.cfg.Export.SQLiteEnabled {
		if err := r.saveRun(ctx, report); err != nil {
			return published, err
		}
		published.RunStored = true
		logger.Info("run stored", logging.String("database", r.cfg.Paths.DatabasePath))
	}
	return published, nil
}

func (r *Runner) saveRun(ctx context.Context, report *Report) error {
	s, err := store.Open(r.cfg)
	if err != nil {
		return records.Wrap(records.ErrIO, "pipeline", "open store", r.cfg.Paths.DatabasePath, err)
	}
	defer s.Close()

	run := &store.Run{
		ID:              report.RunID,
		CreatedAt:       report.StartedAt,
		LeftPath:        report.LeftPath,
		RightPath:       report.RightPath,
		SeasonYear:      r.cfg.Linkage.SeasonYear,
		LeftRecords:     len(report.Left.Records),
		RightRecords:    len(report.Right.Records),
		ThresholdClub:   r.cfg.Linkage.ThresholdClub,
		ThresholdGlobal: r.cfg.Linkage.ThresholdGlobal,
		AmbiguityMargin: r.cfg.Linkage.AmbiguityMargin,
		YearTolerance:   r.cfg.Linkage.YearTolerance,
		Duration:        report.Duration,
	}
	if err := s.SaveRun(ctx, run, report.Output); err != nil {
		return records.Wrap(records.ErrIO, "pipeline", "save run", "", err)
	}
	report.RunID = run.ID
	return nil
}
