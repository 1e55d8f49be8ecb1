package config

const (
	defaultOutputDir       = "~/.local/share/playerxref/out"
	defaultLogDir          = "~/.local/share/playerxref/logs"
	defaultDatabasePath    = "~/.local/share/playerxref/runs.db"
	defaultSeasonYear      = 2024
	defaultThresholdClub   = 90.0
	defaultThresholdGlobal = 93.0
	defaultAmbiguityMargin = 5.0
	defaultYearTolerance   = 1
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:    defaultOutputDir,
			LogDir:       defaultLogDir,
			DatabasePath: defaultDatabasePath,
		},
		Linkage: Linkage{
			SeasonYear:      defaultSeasonYear,
			ThresholdClub:   defaultThresholdClub,
			ThresholdGlobal: defaultThresholdGlobal,
			AmbiguityMargin: defaultAmbiguityMargin,
			YearTolerance:   defaultYearTolerance,
		},
		Clubs: Clubs{
			Aliases: map[string]string{},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
