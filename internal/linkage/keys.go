package linkage

import "playerxref/internal/records"

// KeyKind identifies the shape of a candidate key.
type KeyKind int

const (
	// KeyNameClubYear is (normalized_name, club, birth_year).
	KeyNameClubYear KeyKind = iota + 1
	// KeyNameKeyClubYear is (name_key, club, birth_year).
	KeyNameKeyClubYear
	// KeyNameKeyYear is (name_key, birth_year).
	KeyNameKeyYear
	// KeyNameClub is (normalized_name, club).
	KeyNameClub
	// KeyNameKeyDOB is (name_key, dob_iso).
	KeyNameKeyDOB
)

var keyKinds = []KeyKind{KeyNameClubYear, KeyNameKeyClubYear, KeyNameKeyYear, KeyNameClub, KeyNameKeyDOB}

func (k KeyKind) String() string {
	switch k {
	case KeyNameClubYear:
		return "name+club+year"
	case KeyNameKeyClubYear:
		return "name_key+club+year"
	case KeyNameKeyYear:
		return "name_key+year"
	case KeyNameClub:
		return "name+club"
	case KeyNameKeyDOB:
		return "name_key+dob"
	default:
		return "unknown"
	}
}

// CandidateKey is a comparable bucket key. Components unused by Kind are
// left zero.
type CandidateKey struct {
	Kind KeyKind
	Name string
	Club string
	Year int
	DOB  string
}

// KeyFor derives the key of the given kind, with the birth year shifted by
// offset for year-bearing kinds. It reports false when a required component
// is missing.
func KeyFor(kind KeyKind, id records.Identity, offset int) (CandidateKey, bool) {
	year := 0
	if id.BirthYear > 0 {
		year = id.BirthYear + offset
	}
	switch kind {
	case KeyNameClubYear:
		if id.Name == "" || id.Club == "" || year == 0 {
			return CandidateKey{}, false
		}
		return CandidateKey{Kind: kind, Name: id.Name, Club: id.Club, Year: year}, true
	case KeyNameKeyClubYear:
		if id.NameKey == "" || id.Club == "" || year == 0 {
			return CandidateKey{}, false
		}
		return CandidateKey{Kind: kind, Name: id.NameKey, Club: id.Club, Year: year}, true
	case KeyNameKeyYear:
		if id.NameKey == "" || year == 0 {
			return CandidateKey{}, false
		}
		return CandidateKey{Kind: kind, Name: id.NameKey, Year: year}, true
	case KeyNameClub:
		if id.Name == "" || id.Club == "" {
			return CandidateKey{}, false
		}
		return CandidateKey{Kind: kind, Name: id.Name, Club: id.Club}, true
	case KeyNameKeyDOB:
		if id.NameKey == "" || id.DOB == "" {
			return CandidateKey{}, false
		}
		return CandidateKey{Kind: kind, Name: id.NameKey, DOB: id.DOB}, true
	default:
		return CandidateKey{}, false
	}
}

// BuildKeys returns the ordered key set K1..K4 plus the dob key, omitting
// keys whose components are missing.
func BuildKeys(id records.Identity) []CandidateKey {
	keys := make([]CandidateKey, 0, len(keyKinds))
	for _, kind := range keyKinds {
		if key, ok := KeyFor(kind, id, 0); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// Index buckets right records by every key they produce. Buckets keep right
// row order. It is read-only after construction.
type Index struct {
	buckets map[CandidateKey][]int
}

// NewIndex indexes right records. Records without a normalized name are
// skipped.
func NewIndex(right []records.ValuationRecord) *Index {
	ix := &Index{buckets: make(map[CandidateKey][]int, len(right)*len(keyKinds))}
	for i := range right {
		if !right[i].Identity.HasName() {
			continue
		}
		for _, key := range BuildKeys(right[i].Identity) {
			ix.buckets[key] = append(ix.buckets[key], i)
		}
	}
	return ix
}

// Lookup returns the right indices sharing key. The slice must not be
// modified.
func (ix *Index) Lookup(key CandidateKey) []int {
	if ix == nil {
		return nil
	}
	return ix.buckets[key]
}

// Len reports the number of distinct buckets.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.buckets)
}
