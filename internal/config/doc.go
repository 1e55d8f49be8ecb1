// Package config loads, normalizes, and validates playerxref configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLAYERXREF_SEASON_YEAR. The Config type centralizes every knob the linkage
// engine and CLI need: output locations, matching thresholds, club aliases,
// export toggles and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
