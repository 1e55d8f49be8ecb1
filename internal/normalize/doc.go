// Package normalize turns raw name, club and date cells into the canonical
// comparable fields used by the linkage engine.
//
// Every function is pure per record. Unparsable dates and ages never fail:
// they yield empty or zero values and the record simply carries less
// information into matching. Club names are folded and then canonicalized
// through an alias table assembled from an embedded default, an optional
// YAML file and inline configuration entries, in that order of precedence.
package normalize
