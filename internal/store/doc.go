// Package store persists linkage runs in a SQLite audit database.
//
// Each run records its inputs, options and counts together with the committed
// links and the unmatched report, so past runs can be listed and compared
// from the CLI. The schema is embedded and guarded by a version row; a
// mismatched database must be deleted rather than migrated.
package store
