package normalize

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// AliasFile is the YAML layout of a club alias table.
type AliasFile struct {
	Version string        `yaml:"version"`
	Clubs   []ClubAliases `yaml:"clubs"`
}

// ClubAliases lists the spellings that resolve to one canonical club name.
type ClubAliases struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases,omitempty"`
}

// AliasTable maps folded club spellings to canonical names.
type AliasTable map[string]string

// LoadAliasFile loads and parses a YAML alias file from the given path.
func LoadAliasFile(path string) (*AliasFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}
	return ParseAliasFile(data)
}

// ParseAliasFile parses YAML data into an AliasFile.
func ParseAliasFile(data []byte) (*AliasFile, error) {
	var af AliasFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("failed to parse alias YAML: %w", err)
	}
	if af.Version == "" {
		af.Version = "1"
	}
	return &af, nil
}

// DefaultAliases returns the embedded alias table.
func DefaultAliases() AliasTable {
	af, err := ParseAliasFile(defaultAliasesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded alias table: %v", err))
	}
	return af.Table()
}

// Table flattens the file into lookup form. Canonical names map to
// themselves; every key and value is folded like a club cell.
func (af *AliasFile) Table() AliasTable {
	table := make(AliasTable)
	if af == nil {
		return table
	}
	for _, club := range af.Clubs {
		canonical := foldClub(club.Canonical)
		if canonical == "" {
			continue
		}
		table[canonical] = canonical
		for _, alias := range club.Aliases {
			if key := foldClub(alias); key != "" {
				table[key] = canonical
			}
		}
	}
	return table
}

// Merge returns a new table with entries from other overriding t. Keys and
// values of other are folded before insertion.
func (t AliasTable) Merge(other map[string]string) AliasTable {
	merged := make(AliasTable, len(t)+len(other))
	for k, v := range t {
		merged[k] = v
	}
	for alias, canonical := range other {
		key := foldClub(alias)
		value := foldClub(canonical)
		if key == "" || value == "" {
			continue
		}
		merged[key] = value
	}
	return merged
}

// Lookup returns the canonical name for a folded club string.
func (t AliasTable) Lookup(folded string) (string, bool) {
	canonical, ok := t[folded]
	return canonical, ok
}

// Canonicals lists the distinct canonical names in sorted order.
func (t AliasTable) Canonicals() []string {
	seen := make(map[string]struct{}, len(t))
	for _, canonical := range t {
		seen[canonical] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for canonical := range seen {
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}
