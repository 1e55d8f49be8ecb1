package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output, log and audit database locations.
type Paths struct {
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
	DatabasePath string `toml:"database_path"`
}

// Linkage contains the matching knobs of the record-linkage engine.
type Linkage struct {
	// SeasonYear anchors age -> birth year estimation (season_year - age).
	SeasonYear int `toml:"season_year"`
	// ThresholdClub is the minimum club-scoped fuzzy score (0-100).
	ThresholdClub float64 `toml:"threshold_club"`
	// ThresholdGlobal is the minimum global fuzzy score (0-100).
	ThresholdGlobal float64 `toml:"threshold_global"`
	// AmbiguityMargin is the required gap between the best and second-best
	// global fuzzy candidate.
	AmbiguityMargin float64 `toml:"ambiguity_margin"`
	// YearTolerance is the +/- birth-year window for shifted stages.
	YearTolerance int `toml:"year_tolerance"`
	// Workers bounds the scoring goroutines. Zero means GOMAXPROCS.
	Workers int `toml:"workers"`
	// ReferenceDate (YYYY-MM-DD) is used to compute resolved ages.
	// Empty defaults to July 1st of SeasonYear.
	ReferenceDate string `toml:"reference_date"`
}

// Clubs contains club alias configuration layered over the built-in table.
type Clubs struct {
	AliasFile string            `toml:"alias_file"`
	Aliases   map[string]string `toml:"aliases"`
}

// Export contains optional sinks for link runs.
type Export struct {
	SQLiteEnabled bool   `toml:"sqlite_enabled"`
	MetricsFile   string `toml:"metrics_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for playerxref.
//
// Configuration sections by subsystem:
//   - Paths: output, log and audit database locations
//   - Linkage: season year, fuzzy thresholds, birth-year tolerance, workers
//   - Clubs: alias file and inline alias overrides
//   - Export: SQLite audit store and Prometheus textfile toggles
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Linkage Linkage `toml:"linkage"`
	Clubs   Clubs   `toml:"clubs"`
	Export  Export  `toml:"export"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/playerxref/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath returns the explicit path when given. Otherwise it
// prefers ~/.config/playerxref/config.toml, then ./playerxref.toml, and falls
// back to the (missing) default location.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("playerxref.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories. The audit
// database directory is only created when the SQLite export is enabled.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Export.SQLiteEnabled && strings.TrimSpace(c.Paths.DatabasePath) != "" {
		dir := filepath.Dir(c.Paths.DatabasePath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database directory %q: %w", dir, err)
		}
	}
	return nil
}

// ReferenceTime returns the parsed linkage reference date. Load guarantees the
// value is valid, so the zero time only appears for hand-built configs.
func (c *Config) ReferenceTime() time.Time {
	t, err := time.Parse(time.DateOnly, c.Linkage.ReferenceDate)
	if err != nil {
		return time.Date(c.Linkage.SeasonYear, time.July, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// SetSeasonYear overrides the season year. A reference date that was derived
// from the previous season follows the new one.
func (c *Config) SetSeasonYear(year int) {
	if c.Linkage.ReferenceDate == "" || c.Linkage.ReferenceDate == seasonReferenceDate(c.Linkage.SeasonYear) {
		c.Linkage.ReferenceDate = seasonReferenceDate(year)
	}
	c.Linkage.SeasonYear = year
}

func seasonReferenceDate(year int) string {
	return fmt.Sprintf("%04d-07-01", year)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
