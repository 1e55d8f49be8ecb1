package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"playerxref/internal/assemble"
	"playerxref/internal/config"
	"playerxref/internal/linkage"
	"playerxref/internal/logging"
	"playerxref/internal/metrics"
	"playerxref/internal/normalize"
	"playerxref/internal/records"
)

// Request names the inputs of a run.
type Request struct {
	LeftPath  string
	RightPath string
	// RunID defaults to a new UUID.
	RunID string
}

// Report is the outcome of Run.
type Report struct {
	RunID     string
	LeftPath  string
	RightPath string
	Left      *records.LeftTable
	Right     *records.RightTable
	Result    *linkage.Result
	Output    *assemble.Output
	StartedAt time.Time
	Duration  time.Duration
}

// Runner executes runs for one configuration.
type Runner struct {
	cfg        *config.Config
	logger     *slog.Logger
	recorder   *metrics.Recorder
	normalizer *normalize.Normalizer
	engine     *linkage.Engine
}

// New builds the normalizer and the linkage engine from cfg. recorder may be
// nil.
func New(cfg *config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Runner, error) {
	if cfg == nil {
		return nil, records.Wrap(records.ErrConfiguration, "pipeline", "init", "config is nil", nil)
	}
	logger = logging.NewComponentLogger(logger, "pipeline")

	n, err := normalize.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts := linkage.OptionsFromConfig(cfg)
	opts.Logger = logger
	if recorder != nil {
		opts.Observer = recorder
	}
	engine, err := linkage.New(opts)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:        cfg,
		logger:     logger,
		recorder:   recorder,
		normalizer: n,
		engine:     engine,
	}, nil
}

// Run loads, normalizes, links and assembles one pair of feeds.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	left, err := records.LoadLeft(req.LeftPath)
	if err != nil {
		return nil, err
	}
	right, err := records.LoadRight(req.RightPath)
	if err != nil {
		return nil, err
	}
	logger.Info("inputs loaded",
		logging.String("left_path", req.LeftPath),
		logging.Int("left_records", len(left.Records)),
		logging.String("right_path", req.RightPath),
		logging.Int("right_records", len(right.Records)),
	)

	report, err := r.link(ctx, left, right)
	if err != nil {
		return nil, err
	}
	report.RunID = runID
	report.LeftPath = req.LeftPath
	report.RightPath = req.RightPath
	report.StartedAt = started.UTC()
	report.Duration = time.Since(started)

	logger.Info("run complete",
		logging.Int("matched", report.Output.MatchedCount()),
		logging.Int("unmatched", len(report.Output.Unmatched)),
		logging.Duration("duration", report.Duration),
	)
	return report, nil
}

// Link runs the pipeline on tables that are already loaded.
func (r *Runner) Link(ctx context.Context, left *records.LeftTable, right *records.RightTable) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	report, err := r.link(ctx, left, right)
	if err != nil {
		return nil, err
	}
	report.StartedAt = started.UTC()
	report.Duration = time.Since(started)
	return report, nil
}

func (r *Runner) link(ctx context.Context, left *records.LeftTable, right *records.RightTable) (*Report, error) {
	if left == nil || right == nil {
		return nil, records.Wrap(records.ErrValidation, "pipeline", "link", "both tables are required", nil)
	}
	if dropped := left.DedupeByID(); dropped > 0 {
		logging.WithContext(ctx, r.logger).Warn("duplicate left ids dropped", logging.Int("dropped", dropped))
	}
	r.normalizer.ApplyLeft(left.Records)
	r.normalizer.ApplyRight(right.Records)
	r.recorder.RecordRecords(records.SideLeft, len(left.Records))
	r.recorder.RecordRecords(records.SideRight, len(right.Records))

	result, err := r.engine.Link(ctx, left.Records, right.Records)
	if err != nil {
		return nil, err
	}
	out, err := assemble.Assemble(left, right, result.Links, assemble.Options{ReferenceDate: r.cfg.ReferenceTime()})
	if err != nil {
		return nil, err
	}
	r.recorder.RecordOutput(out)
	return &Report{Left: left, Right: right, Result: result, Output: out}, nil
}
