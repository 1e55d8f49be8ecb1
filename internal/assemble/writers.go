package assemble

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"playerxref/internal/records"
)

// Output file names written by WriteFiles.
const (
	LinkedCSVName    = "linked.csv"
	UnmatchedCSVName = "unmatched.csv"
	LinkedJSONName   = "linked.json"
)

// WriteLinkedCSV writes the linked table.
func (o *Output) WriteLinkedCSV(w io.Writer) error {
	return writeCSV(w, o.Header, o.LinkedRecords())
}

// WriteUnmatchedCSV writes the unmatched report.
func (o *Output) WriteUnmatchedCSV(w io.Writer) error {
	return writeCSV(w, UnmatchedHeader, o.UnmatchedRecords())
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

type jsonLinked struct {
	LeftID      string            `json:"left_id"`
	Fields      map[string]string `json:"fields"`
	ExternalID  *string           `json:"external_id"`
	MarketValue *int64            `json:"market_value"`
	DOBResolved *string           `json:"dob_resolved"`
	AgeResolved *int              `json:"age_resolved"`
	LinkMethod  *string           `json:"link_method"`
	LinkScore   *float64          `json:"link_score"`
}

type jsonUnmatched struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Club           string `json:"club"`
	Born           string `json:"born"`
	NormalizedName string `json:"normalized_name"`
	NameKey        string `json:"name_key"`
	FirstLast      string `json:"first_last"`
	NormalizedClub string `json:"normalized_club"`
	BirthYear      *int   `json:"birth_year"`
	Reason         string `json:"reason"`
}

type jsonCount struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
}

type jsonDocument struct {
	Linked    []jsonLinked    `json:"linked"`
	Unmatched []jsonUnmatched `json:"unmatched"`
	Breakdown []jsonCount     `json:"breakdown"`
}

// WriteJSON writes linked rows, the unmatched report and the method
// breakdown as one indented document. Absent values are null.
func (o *Output) WriteJSON(w io.Writer) error {
	doc := jsonDocument{
		Linked:    make([]jsonLinked, 0, len(o.Linked)),
		Unmatched: make([]jsonUnmatched, 0, len(o.Unmatched)),
	}
	keys := uniqueNames(o.Header)
	for _, row := range o.Linked {
		entry := jsonLinked{LeftID: row.LeftID, Fields: make(map[string]string, len(row.Cells))}
		for i, cell := range row.Cells {
			if i < len(keys) {
				entry.Fields[keys[i]] = cell
			}
		}
		if row.DOB != "" {
			entry.DOBResolved = ptr(row.DOB)
		}
		if row.Age > 0 {
			entry.AgeResolved = ptr(row.Age)
		}
		if row.Matched {
			if row.ExternalID != "" {
				entry.ExternalID = ptr(row.ExternalID)
			}
			if row.HasValue {
				entry.MarketValue = ptr(row.MarketValue)
			}
			entry.LinkMethod = ptr(row.Method)
			entry.LinkScore = ptr(row.Score)
		}
		doc.Linked = append(doc.Linked, entry)
	}
	for _, u := range o.Unmatched {
		entry := jsonUnmatched{
			ID:             u.ID,
			Name:           u.Name,
			Club:           u.Club,
			Born:           u.Born,
			NormalizedName: u.NormalizedName,
			NameKey:        u.NameKey,
			FirstLast:      u.FirstLast,
			NormalizedClub: u.NormalizedClub,
			Reason:         u.Reason,
		}
		if u.BirthYear > 0 {
			entry.BirthYear = ptr(u.BirthYear)
		}
		doc.Unmatched = append(doc.Unmatched, entry)
	}
	for _, c := range o.Breakdown() {
		doc.Breakdown = append(doc.Breakdown, jsonCount{Method: c.Method, Count: c.Count})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// uniqueNames suffixes repeated header names with __dup1, __dup2, ... so
// flattened exports with repeated columns keep every cell as a JSON field.
func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; !dup {
			seen[name] = 0
			out = append(out, name)
			continue
		}
		var candidate string
		for {
			seen[name]++
			candidate = fmt.Sprintf("%s__dup%d", name, seen[name])
			if _, taken := seen[candidate]; !taken {
				break
			}
		}
		seen[candidate] = 0
		out = append(out, candidate)
	}
	return out
}

// WriteFiles writes the run outputs into dir: linked.csv and unmatched.csv,
// or linked.json when asJSON is set. It returns the written paths.
func (o *Output) WriteFiles(dir string, asJSON bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, records.Wrap(records.ErrIO, "assemble", "create output dir", dir, err)
	}
	if asJSON {
		path := filepath.Join(dir, LinkedJSONName)
		if err := writeFile(path, o.WriteJSON); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	linked := filepath.Join(dir, LinkedCSVName)
	if err := writeFile(linked, o.WriteLinkedCSV); err != nil {
		return nil, err
	}
	unmatched := filepath.Join(dir, UnmatchedCSVName)
	if err := writeFile(unmatched, o.WriteUnmatchedCSV); err != nil {
		return nil, err
	}
	return []string{linked, unmatched}, nil
}

// writeFile renders into a temp file and renames it over path.
func writeFile(path string, render func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return records.Wrap(records.ErrIO, "assemble", "create temp file", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := render(tmp); err != nil {
		_ = tmp.Close()
		return records.Wrap(records.ErrIO, "assemble", "render", path, err)
	}
	if err := tmp.Close(); err != nil {
		return records.Wrap(records.ErrIO, "assemble", "close", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return records.Wrap(records.ErrIO, "assemble", "rename", fmt.Sprintf("%s -> %s", tmpName, path), err)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
