package records

import (
	"fmt"
	"strings"
)

// Field identifiers shared by both schemas.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldClub        = "club"
	FieldBorn        = "born"
	FieldAge         = "age"
	FieldNationality = "nationality"
	FieldPosition    = "position"
	FieldExternalID  = "external_id"
	FieldMarketValue = "market_value"
	FieldLastUpdate  = "last_update"
)

// Field describes one logical column and the header spellings accepted for it.
type Field struct {
	Name     string
	Aliases  []string
	Required bool
}

// Schema is an ordered list of fields for one side of the linkage.
type Schema struct {
	Side   Side
	Fields []Field
}

// Columns maps field names to header positions. Absent optional fields are
// missing from the map.
type Columns map[string]int

// Has reports whether the field was found in the header.
func (c Columns) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Cell returns the trimmed value of field in row, or "" when the column is
// absent or the row is short.
func (c Columns) Cell(row []string, field string) string {
	idx, ok := c[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// LeftSchema lists the performance feed columns.
var LeftSchema = Schema{
	Side: SideLeft,
	Fields: []Field{
		{Name: FieldName, Aliases: []string{"name", "Player", "player_name"}, Required: true},
		{Name: FieldClub, Aliases: []string{"club", "Squad", "team"}, Required: true},
		{Name: FieldID, Aliases: []string{"id", "player_id", "player_id_fb"}},
		{Name: FieldBorn, Aliases: []string{"born", "Born", "dob"}},
		{Name: FieldAge, Aliases: []string{"age", "Age", "AgeYears"}},
		{Name: FieldNationality, Aliases: []string{"nationality", "Nation", "country"}},
		{Name: FieldPosition, Aliases: []string{"position", "Pos"}},
	},
}

// RightSchema lists the valuation feed columns.
var RightSchema = Schema{
	Side: SideRight,
	Fields: []Field{
		{Name: FieldName, Aliases: []string{"name", "player_name"}, Required: true},
		{Name: FieldClub, Aliases: []string{"club", "club_name", "team"}, Required: true},
		{Name: FieldExternalID, Aliases: []string{"player_id", "tm_player_id", "external_id"}},
		{Name: FieldBorn, Aliases: []string{"dob", "date_of_birth"}},
		{Name: FieldAge, Aliases: []string{"age"}},
		{Name: FieldMarketValue, Aliases: []string{"market_value_eur", "market_value"}},
		{Name: FieldLastUpdate, Aliases: []string{"last_update"}},
	},
}

// Resolve matches header cells against the schema. Matching is
// case-insensitive after trimming; the first alias present wins. A missing
// required field yields ErrConfiguration.
func (s Schema) Resolve(header []string) (Columns, error) {
	positions := make(map[string]int, len(header))
	for i, cell := range header {
		key := headerKey(cell)
		if key == "" {
			continue
		}
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	cols := make(Columns, len(s.Fields))
	var missing []string
	for _, field := range s.Fields {
		found := false
		for _, alias := range field.Aliases {
			if idx, ok := positions[headerKey(alias)]; ok {
				cols[field.Name] = idx
				found = true
				break
			}
		}
		if !found && field.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", field.Name, strings.Join(field.Aliases, "|")))
		}
	}
	if len(missing) > 0 {
		return nil, Wrap(ErrConfiguration, string(s.Side), "resolve columns",
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}
	return cols, nil
}

func headerKey(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	return strings.ToLower(strings.TrimSpace(cell))
}
