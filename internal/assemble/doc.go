// Package assemble projects link results back onto the performance schema.
//
// Assemble is pure: the same tables and links always produce the same
// Output, and the CSV and JSON writers render it byte-for-byte identically.
package assemble
