// Package pipeline wires one linkage run end to end.
//
// Run loads both feeds, normalizes them, links them and assembles the output
// tables. Publish writes the outputs under an exclusive lock on the output
// directory and exports the optional metrics textfile and audit store row.
package pipeline
