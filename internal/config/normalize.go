package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLinkage(); err != nil {
		return err
	}
	if err := c.normalizeClubs(); err != nil {
		return err
	}
	c.normalizeExport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = defaultDatabasePath
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLinkage() error {
	if value, ok := os.LookupEnv("PLAYERXREF_SEASON_YEAR"); ok && strings.TrimSpace(value) != "" {
		year, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("PLAYERXREF_SEASON_YEAR: %w", err)
		}
		c.Linkage.SeasonYear = year
	}
	c.Linkage.ReferenceDate = strings.TrimSpace(c.Linkage.ReferenceDate)
	if c.Linkage.ReferenceDate == "" && c.Linkage.SeasonYear > 0 {
		c.Linkage.ReferenceDate = seasonReferenceDate(c.Linkage.SeasonYear)
	}
	return nil
}

func (c *Config) normalizeClubs() error {
	if strings.TrimSpace(c.Clubs.AliasFile) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Clubs.AliasFile))
		if err != nil {
			return fmt.Errorf("clubs.alias_file: %w", err)
		}
		c.Clubs.AliasFile = expanded
	}
	if len(c.Clubs.Aliases) == 0 {
		c.Clubs.Aliases = map[string]string{}
		return nil
	}
	aliases := make(map[string]string, len(c.Clubs.Aliases))
	for alias, canonical := range c.Clubs.Aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		if alias == "" || canonical == "" {
			continue
		}
		aliases[alias] = canonical
	}
	c.Clubs.Aliases = aliases
	return nil
}

func (c *Config) normalizeExport() {
	c.Export.MetricsFile = strings.TrimSpace(c.Export.MetricsFile)
	if c.Export.MetricsFile != "" {
		if expanded, err := expandPath(c.Export.MetricsFile); err == nil {
			c.Export.MetricsFile = expanded
		}
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("PLAYERXREF_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
