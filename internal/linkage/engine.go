package linkage

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"playerxref/internal/config"
	"playerxref/internal/logging"
	"playerxref/internal/records"
	"playerxref/internal/textutil"
)

// Options configures an Engine.
type Options struct {
	ThresholdClub   float64
	ThresholdGlobal float64
	AmbiguityMargin float64
	YearTolerance   int
	// Workers bounds proposal goroutines. Zero means GOMAXPROCS.
	Workers int
	// Scorer defaults to textutil.TokenSetRatio.
	Scorer   Scorer
	Observer Observer
	Logger   *slog.Logger
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg)
}

// OptionsFromConfig maps the linkage section of cfg to engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ThresholdClub:   cfg.Linkage.ThresholdClub,
		ThresholdGlobal: cfg.Linkage.ThresholdGlobal,
		AmbiguityMargin: cfg.Linkage.AmbiguityMargin,
		YearTolerance:   cfg.Linkage.YearTolerance,
		Workers:         cfg.Linkage.Workers,
	}
}

// Validate checks the numeric ranges accepted by the engine.
func (o Options) Validate() error {
	switch {
	case o.ThresholdClub <= 0 || o.ThresholdClub > 100:
		return records.Wrap(records.ErrValidation, "linkage", "validate options", fmt.Sprintf("threshold_club %v outside (0, 100]", o.ThresholdClub), nil)
	case o.ThresholdGlobal <= 0 || o.ThresholdGlobal > 100:
		return records.Wrap(records.ErrValidation, "linkage", "validate options", fmt.Sprintf("threshold_global %v outside (0, 100]", o.ThresholdGlobal), nil)
	case o.AmbiguityMargin < 0 || o.AmbiguityMargin >= 100:
		return records.Wrap(records.ErrValidation, "linkage", "validate options", fmt.Sprintf("ambiguity_margin %v outside [0, 100)", o.AmbiguityMargin), nil)
	case o.YearTolerance < 0:
		return records.Wrap(records.ErrValidation, "linkage", "validate options", "year_tolerance must be >= 0", nil)
	case o.Workers < 0:
		return records.Wrap(records.ErrValidation, "linkage", "validate options", "workers must be >= 0", nil)
	}
	return nil
}

// Engine runs the cascade and fuzzy stages.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New validates opts and returns an Engine.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Scorer == nil {
		opts.Scorer = textutil.TokenSetRatio
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "linkage"),
	}, nil
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Link matches normalized left records against normalized right records. It
// returns one LinkResult per left record in left row order.
func (e *Engine) Link(ctx context.Context, left []records.PerformanceRecord, right []records.ValuationRecord) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a := newArena(left, right)
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("linkage started",
		logging.Args(
			logging.Int("left_records", len(left)),
			logging.Int("right_records", len(right)),
			logging.Int("excluded_missing_name", len(left)-len(a.pending)),
			logging.Int("index_buckets", a.index.Len()),
		)...)

	result := &Result{}
	run := func(method string, fn func(li int) proposal) error {
		started := time.Now()
		stageCtx := logging.WithStage(ctx, method)
		stageLogger := logging.WithContext(stageCtx, e.logger)
		proposals, err := proposeAll(stageCtx, e.opts.Workers, a.pending, fn)
		if err != nil {
			return fmt.Errorf("linkage: %s: %w", method, err)
		}
		proposed := 0
		for _, p := range proposals {
			if p.Right >= 0 {
				proposed++
			}
		}
		matched := a.commit(method, proposals, stageLogger)
		stats := StageStats{
			Stage:     method,
			Proposed:  proposed,
			Matched:   matched,
			Remaining: len(a.pending),
			Duration:  time.Since(started),
		}
		result.Stages = append(result.Stages, stats)
		stageLogger.Info("stage complete", logging.Args(logging.StageAttrs(stats.Proposed, stats.Matched, stats.Remaining, stats.Duration)...)...)
		if e.opts.Observer != nil {
			e.opts.Observer.StageCompleted(stats)
		}
		return nil
	}

	for _, stage := range cascadeStages(e.opts.YearTolerance) {
		if err := run(stage.method, func(li int) proposal {
			return stage.propose(a, li, e.opts.YearTolerance)
		}); err != nil {
			return nil, err
		}
	}

	clubs := clubPartition(a)
	if err := run(MethodFuzzyClub, func(li int) proposal {
		return proposeFuzzyClub(a, li, clubs, e.opts)
	}); err != nil {
		return nil, err
	}

	years := yearPartition(a)
	if err := run(MethodFuzzyGlobal, func(li int) proposal {
		return proposeFuzzyGlobal(a, li, years, e.opts)
	}); err != nil {
		return nil, err
	}

	result.Links = a.results
	logger.Info("linkage finished",
		logging.Args(
			logging.Int("matched", result.Matched()),
			logging.Int("unmatched", result.Unmatched()),
		)...)
	return result, nil
}
