package normalize

import (
	"fmt"
	"strings"

	"playerxref/internal/config"
	"playerxref/internal/records"
)

// Options configures a Normalizer.
type Options struct {
	// SeasonYear anchors birth-year estimation from ages.
	SeasonYear int
	// AliasFile is an optional YAML alias table merged over the defaults.
	AliasFile string
	// Aliases are inline entries merged last.
	Aliases map[string]string
}

// Normalizer derives comparable identity fields from raw cells.
type Normalizer struct {
	seasonYear int
	aliases    AliasTable
}

// New builds a Normalizer with the embedded alias table plus any overrides.
func New(opts Options) (*Normalizer, error) {
	table := DefaultAliases()
	if path := strings.TrimSpace(opts.AliasFile); path != "" {
		af, err := LoadAliasFile(path)
		if err != nil {
			return nil, records.Wrap(records.ErrConfiguration, "normalize", "load aliases", "", err)
		}
		table = table.Merge(af.Table())
	}
	if len(opts.Aliases) > 0 {
		table = table.Merge(opts.Aliases)
	}
	return &Normalizer{seasonYear: opts.SeasonYear, aliases: table}, nil
}

// NewFromConfig builds a Normalizer from application configuration.
func NewFromConfig(cfg *config.Config) (*Normalizer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("normalize: config is nil")
	}
	return New(Options{
		SeasonYear: cfg.Linkage.SeasonYear,
		AliasFile:  cfg.Clubs.AliasFile,
		Aliases:    cfg.Clubs.Aliases,
	})
}

// SeasonYear reports the year used for age-based estimation.
func (n *Normalizer) SeasonYear() int {
	return n.seasonYear
}

// Aliases exposes the merged alias table.
func (n *Normalizer) Aliases() AliasTable {
	return n.aliases
}

// Club folds a raw club name and resolves it through the alias table,
// falling back to the folded form.
func (n *Normalizer) Club(raw string) string {
	folded := foldClub(raw)
	if canonical, ok := n.aliases.Lookup(folded); ok {
		return canonical
	}
	return folded
}

// BirthYear resolves the birth year from a parsed date, else from
// seasonYear - age. The boolean reports an age-based estimate.
func (n *Normalizer) BirthYear(dobYear, age int) (int, bool) {
	if dobYear > 0 {
		return dobYear, false
	}
	if age > 0 && n.seasonYear > 0 {
		return n.seasonYear - age, true
	}
	return 0, false
}

// Identity fills the derived fields of id from its raw cells.
func (n *Normalizer) Identity(id *records.Identity) {
	id.Name = Name(id.RawName)
	id.NameKey = ""
	id.FirstLast = ""
	if id.Name != "" {
		id.NameKey = NameKey(id.Name)
		id.FirstLast = FirstLast(id.Name)
	}
	id.Club = n.Club(id.RawClub)
	var year int
	id.DOB, year = DOB(id.RawDOB)
	id.BirthYear, id.BirthYearEstimated = n.BirthYear(year, Age(id.RawAge))
}

// ApplyLeft normalizes every performance record in place.
func (n *Normalizer) ApplyLeft(recs []records.PerformanceRecord) {
	for i := range recs {
		n.Identity(&recs[i].Identity)
	}
}

// ApplyRight normalizes every valuation record in place, including the
// integer age.
func (n *Normalizer) ApplyRight(recs []records.ValuationRecord) {
	for i := range recs {
		n.Identity(&recs[i].Identity)
		recs[i].Age = Age(recs[i].Identity.RawAge)
		if update, _ := DOB(recs[i].LastUpdate); update != "" {
			recs[i].LastUpdate = update
		}
	}
}
