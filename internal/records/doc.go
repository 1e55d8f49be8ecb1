// Package records defines the two input record variants linked by playerxref
// and the explicit schemas used to ingest them.
//
// Column presence is validated once, at ingestion, against a Schema listing
// the accepted header aliases for every field. Missing required columns are
// reported as ErrConfiguration before any matching starts; everything below
// the column level (blank cells, malformed dates, odd market values) is kept
// as raw text and resolved later by the normalizer without failing.
package records
