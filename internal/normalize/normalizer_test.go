package normalize_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"playerxref/internal/normalize"
	"playerxref/internal/records"
	"playerxref/internal/testsupport"
)

func newNormalizer(t *testing.T, opts normalize.Options) *normalize.Normalizer {
	t.Helper()
	if opts.SeasonYear == 0 {
		opts.SeasonYear = 2024
	}
	n, err := normalize.New(opts)
	if err != nil {
		t.Fatalf("normalize.New: %v", err)
	}
	return n
}

func TestClubAliases(t *testing.T) {
	n := newNormalizer(t, normalize.Options{Aliases: map[string]string{"Inter": "Inter Miami"}})

	tests := []struct {
		raw  string
		want string
	}{
		{"Club Atlético Boca Juniors", "boca juniors"},
		{"Boca", "boca juniors"},
		{"C.A. Vélez Sarsfield", "velez sarsfield"},
		{"Estudiantes (LP)", "estudiantes lp"},
		{"Newell's Old Boys", "newells old boys"},
		{"Paris S-G", "paris saint germain"},
		{"Inter", "inter miami"},
		{"Some Town FC", "some town fc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := n.Club(tt.raw); got != tt.want {
			t.Errorf("Club(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAliasFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubs.yaml")
	data := []byte("clubs:\n  - canonical: CA Boca\n    aliases: [Boca Juniors, xeneizes]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write alias file: %v", err)
	}
	n := newNormalizer(t, normalize.Options{AliasFile: path})

	// "CA Boca" folds to "boca" once the c.a. prefix is removed.
	if got := n.Club("Xeneizes"); got != "boca" {
		t.Fatalf("expected file alias, got %q", got)
	}
	if got := n.Club("Boca Juniors"); got != "boca" {
		t.Fatalf("expected file to override default, got %q", got)
	}
}

func TestAliasFileErrors(t *testing.T) {
	_, err := normalize.New(normalize.Options{AliasFile: filepath.Join(t.TempDir(), "missing.yaml")})
	if !errors.Is(err, records.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := normalize.ParseAliasFile([]byte("clubs: [")); err == nil {
		t.Fatal("expected parse error for malformed yaml")
	}
}

func TestDefaultAliasesCanonicalsMapToThemselves(t *testing.T) {
	table := normalize.DefaultAliases()
	for _, canonical := range table.Canonicals() {
		if got, ok := table.Lookup(canonical); !ok || got != canonical {
			t.Errorf("canonical %q resolves to %q (ok=%v)", canonical, got, ok)
		}
	}
}

func TestIdentityBirthYear(t *testing.T) {
	n := newNormalizer(t, normalize.Options{})

	tests := []struct {
		name          string
		dob           string
		age           string
		wantYear      int
		wantEstimated bool
		wantDOB       string
	}{
		{"from dob", "24/06/1987", "37", 1987, false, "1987-06-24"},
		{"bare year", "1987", "", 1987, false, ""},
		{"from age", "", "22-105", 2002, true, ""},
		{"malformed dob falls back to age", "not a date", "30", 1994, true, ""},
		{"unknown", "", "", 0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := records.Identity{RawName: "Lionel Messi", RawClub: "Inter Miami", RawDOB: tt.dob, RawAge: tt.age}
			n.Identity(&id)
			if id.BirthYear != tt.wantYear || id.BirthYearEstimated != tt.wantEstimated || id.DOB != tt.wantDOB {
				t.Fatalf("got year=%d estimated=%v dob=%q", id.BirthYear, id.BirthYearEstimated, id.DOB)
			}
			if id.Name != "lionel messi" || id.NameKey != "l messi" || id.Club != "inter miami" {
				t.Fatalf("unexpected derived fields: %+v", id)
			}
		})
	}
}

func TestIdentityWithoutName(t *testing.T) {
	n := newNormalizer(t, normalize.Options{})
	id := records.Identity{RawName: "   ", RawClub: "River"}
	n.Identity(&id)
	if id.HasName() || id.NameKey != "" || id.FirstLast != "" {
		t.Fatalf("expected empty name fields, got %+v", id)
	}
	if id.Club != "river plate" {
		t.Fatalf("club should still normalize, got %q", id.Club)
	}
}

func TestApplyLeftAndRight(t *testing.T) {
	n := newNormalizer(t, normalize.Options{})

	left := []records.PerformanceRecord{testsupport.Left(0, "Ronaldinho", "Flamengo", "1980")}
	n.ApplyLeft(left)
	if left[0].Identity.NameKey != "ronaldinho" || left[0].Identity.BirthYear != 1980 {
		t.Fatalf("unexpected left identity: %+v", left[0].Identity)
	}

	right := []records.ValuationRecord{testsupport.Right(0, "Ronaldinho", "Flamengo", "21/03/1980", 1_000_000)}
	right[0].Identity.RawAge = "44"
	right[0].LastUpdate = "01/06/2024"
	n.ApplyRight(right)
	if right[0].Age != 44 || right[0].Identity.DOB != "1980-03-21" {
		t.Fatalf("unexpected right record: %+v", right[0])
	}
	if right[0].LastUpdate != "2024-06-01" {
		t.Fatalf("expected ISO last update, got %q", right[0].LastUpdate)
	}
}
