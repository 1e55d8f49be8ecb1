package testsupport

import (
	"path/filepath"
	"testing"

	"playerxref/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "runs.db")
	cfgVal.Linkage.ReferenceDate = "2024-07-01"
	cfgVal.Linkage.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSeasonYear overrides the season year and the derived reference date.
func WithSeasonYear(year int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SetSeasonYear(year)
	}
}

// WithThresholds overrides the fuzzy acceptance thresholds.
func WithThresholds(club, global float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Linkage.ThresholdClub = club
		b.cfg.Linkage.ThresholdGlobal = global
	}
}

// WithClubAlias adds an inline club alias.
func WithClubAlias(alias, canonical string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Clubs.Aliases == nil {
			b.cfg.Clubs.Aliases = map[string]string{}
		}
		b.cfg.Clubs.Aliases[alias] = canonical
	}
}

// WithSQLite enables the audit store export.
func WithSQLite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.SQLiteEnabled = true
	}
}
