package linkage

import (
	"testing"

	"playerxref/internal/records"
)

func identity(name, nameKey, club, dob string, year int) records.Identity {
	return records.Identity{Name: name, NameKey: nameKey, Club: club, DOB: dob, BirthYear: year}
}

func TestBuildKeysOmitsMissingComponents(t *testing.T) {
	tests := []struct {
		name  string
		id    records.Identity
		kinds []KeyKind
	}{
		{"complete", identity("lionel messi", "l messi", "inter miami", "1987-06-24", 1987),
			[]KeyKind{KeyNameClubYear, KeyNameKeyClubYear, KeyNameKeyYear, KeyNameClub, KeyNameKeyDOB}},
		{"no year", identity("lionel messi", "l messi", "inter miami", "", 0),
			[]KeyKind{KeyNameClub}},
		{"no club", identity("lionel messi", "l messi", "", "", 1987),
			[]KeyKind{KeyNameKeyYear}},
		{"no name", identity("", "", "inter miami", "1987-06-24", 1987), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := BuildKeys(tt.id)
			if len(keys) != len(tt.kinds) {
				t.Fatalf("BuildKeys() = %v, want kinds %v", keys, tt.kinds)
			}
			for i, kind := range tt.kinds {
				if keys[i].Kind != kind {
					t.Errorf("key %d kind = %v, want %v", i, keys[i].Kind, kind)
				}
			}
		})
	}
}

func TestKeyForShiftsYear(t *testing.T) {
	id := identity("enzo fernandez", "e fernandez", "chelsea", "", 2001)
	key, ok := KeyFor(KeyNameKeyYear, id, -1)
	if !ok {
		t.Fatal("expected key")
	}
	want := CandidateKey{Kind: KeyNameKeyYear, Name: "e fernandez", Year: 2000}
	if key != want {
		t.Fatalf("KeyFor() = %+v, want %+v", key, want)
	}
	if _, ok := KeyFor(KeyNameKeyYear, identity("x", "x", "", "", 0), 1); ok {
		t.Fatal("expected no key without a birth year")
	}
}

func TestIndexPreservesRowOrderAndSkipsNameless(t *testing.T) {
	right := []records.ValuationRecord{
		{Row: 0, Identity: identity("l messi", "l messi", "inter miami", "", 1987)},
		{Row: 1, Identity: identity("", "", "inter miami", "", 1987)},
		{Row: 2, Identity: identity("lionel messi", "l messi", "inter miami", "", 1987)},
	}
	ix := NewIndex(right)
	got := ix.Lookup(CandidateKey{Kind: KeyNameKeyClubYear, Name: "l messi", Club: "inter miami", Year: 1987})
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("Lookup() = %v, want [0 2]", got)
	}
	var nilIndex *Index
	if nilIndex.Lookup(CandidateKey{}) != nil || nilIndex.Len() != 0 {
		t.Fatal("nil index should be empty")
	}
}

func TestKeyKindString(t *testing.T) {
	if KeyNameKeyDOB.String() != "name_key+dob" || KeyKind(0).String() != "unknown" {
		t.Fatalf("unexpected kind names: %s %s", KeyNameKeyDOB, KeyKind(0))
	}
}

func TestSelectBestTracksSecond(t *testing.T) {
	a := &arena{right: []records.ValuationRecord{
		{Identity: identity("a", "a", "", "", 0)},
		{Identity: identity("b", "b", "", "", 0)},
		{Identity: identity("c", "c", "", "", 0)},
	}}
	scores := map[string]float64{"a": 92, "b": 95, "c": 92}
	sel := selectBest("x", []int{0, 1, 2}, a, func(_, b string) float64 { return scores[b] })
	if sel.Best != 1 || sel.BestScore != 95 || !sel.HasSecond || sel.Second != 92 {
		t.Fatalf("unexpected selection: %+v", sel)
	}

	tie := selectBest("x", []int{0, 2}, a, func(_, b string) float64 { return scores[b] })
	if tie.Best != 0 || tie.Second != 92 {
		t.Fatalf("ties should keep the lowest row and record the runner-up: %+v", tie)
	}
}

func TestCascadeStagesWithoutTolerance(t *testing.T) {
	stages := cascadeStages(0)
	if len(stages) != 5 {
		t.Fatalf("expected shifted stages to be dropped, got %d", len(stages))
	}
	for _, s := range stages {
		if s.shifted {
			t.Fatalf("unexpected shifted stage %s", s.method)
		}
	}
	if got := cascadeStages(1)[2].method; got != "name_key+club+birth_year±1(unique)" {
		t.Fatalf("unexpected shifted method %q", got)
	}
}
