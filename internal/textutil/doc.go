// Package textutil provides the text primitives shared by the normalizer and
// the fuzzy resolver.
//
// The primary use cases are:
//   - Folding free-form names to lowercase ASCII (case folding, diacritic
//     stripping, transliteration of letters that do not decompose)
//   - Splitting folded text into word tokens and token sets
//   - Scoring two names with the token-set ratio contract
//
// TokenSetRatio is a documented contract rather than an implementation
// detail: it reproduces the rapidfuzz token_set_ratio scorer on
// whitespace-separated tokens and returns scores rounded to two decimals so
// that threshold comparisons are stable.
package textutil
