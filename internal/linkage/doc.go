// Package linkage links performance records to valuation records.
//
// Linking runs as a pure pipeline over an indexed record arena. Seven
// deterministic cascade stages (most specific key first) are followed by two
// fuzzy stages: a club-scoped pass and a global pass restricted to a
// birth-year window and protected by a top-2 ambiguity margin. Every stage
// first computes proposals in parallel against read-only indexes and a claim
// snapshot, then commits them single-threaded in left row order. A right
// record is claimed at most once per run; deterministic buckets holding more
// than one candidate never guess.
//
// Inputs must already be normalized (see package normalize). Link returns one
// LinkResult per left record in left row order, so two runs over identical
// inputs produce identical results regardless of scheduling.
package linkage
