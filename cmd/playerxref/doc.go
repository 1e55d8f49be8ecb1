// Package main hosts the playerxref CLI entrypoint and command graph.
//
// The Cobra-based command tree loads configuration once, runs linkage
// between a performance feed and a valuation feed, inspects how single
// identities normalize, and browses the audit database of past runs.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
