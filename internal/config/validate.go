package config

import (
	"errors"
	"fmt"
	"time"
)

const maxYearTolerance = 5

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLinkage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLinkage() error {
	l := c.Linkage
	if l.SeasonYear < 1900 || l.SeasonYear > 2100 {
		return fmt.Errorf("linkage.season_year must be between 1900 and 2100, got %d", l.SeasonYear)
	}
	if l.ThresholdClub <= 0 || l.ThresholdClub > 100 {
		return errors.New("linkage.threshold_club must be in (0, 100]")
	}
	if l.ThresholdGlobal <= 0 || l.ThresholdGlobal > 100 {
		return errors.New("linkage.threshold_global must be in (0, 100]")
	}
	if l.AmbiguityMargin < 0 || l.AmbiguityMargin >= 100 {
		return errors.New("linkage.ambiguity_margin must be in [0, 100)")
	}
	if l.YearTolerance < 0 || l.YearTolerance > maxYearTolerance {
		return fmt.Errorf("linkage.year_tolerance must be between 0 and %d", maxYearTolerance)
	}
	if l.Workers < 0 {
		return errors.New("linkage.workers must be >= 0")
	}
	if l.ReferenceDate != "" {
		if _, err := time.Parse(time.DateOnly, l.ReferenceDate); err != nil {
			return fmt.Errorf("linkage.reference_date must be YYYY-MM-DD: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
