package records

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a header row and all data rows. A leading UTF-8 BOM is
// dropped, quotes are parsed lazily and ragged rows are tolerated.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, Wrap(ErrIO, "ingest", "read csv", "", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, Wrap(ErrConfiguration, "ingest", "read csv", "input has no header row", nil)
	}
	if err != nil {
		return nil, nil, Wrap(ErrValidation, "ingest", "read csv header", "", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, Wrap(ErrValidation, "ingest", "read csv row", fmt.Sprintf("row %d", len(rows)+1), err)
		}
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// LoadLeft reads the performance feed from path.
func LoadLeft(path string) (*LeftTable, error) {
	header, rows, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLeft(header, rows)
}

// LoadRight reads the valuation feed from path.
func LoadRight(path string) (*RightTable, error) {
	header, rows, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRight(header, rows)
}

// ParseLeft validates header against LeftSchema and builds one record per row.
func ParseLeft(header []string, rows [][]string) (*LeftTable, error) {
	cols, err := LeftSchema.Resolve(header)
	if err != nil {
		return nil, err
	}
	table := &LeftTable{
		Header:  cleanHeader(header),
		Records: make([]PerformanceRecord, 0, len(rows)),
	}
	for i, row := range rows {
		id := cols.Cell(row, FieldID)
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}
		values := make([]string, len(header))
		copy(values, row)
		table.Records = append(table.Records, PerformanceRecord{
			Row: i,
			ID:  id,
			Identity: Identity{
				RawName: cols.Cell(row, FieldName),
				RawClub: cols.Cell(row, FieldClub),
				RawDOB:  cols.Cell(row, FieldBorn),
				RawAge:  cols.Cell(row, FieldAge),
			},
			Nationality: cols.Cell(row, FieldNationality),
			Position:    cols.Cell(row, FieldPosition),
			Values:      values,
		})
	}
	table.DedupeByID()
	return table, nil
}

// ParseRight validates header against RightSchema and builds one record per row.
func ParseRight(header []string, rows [][]string) (*RightTable, error) {
	cols, err := RightSchema.Resolve(header)
	if err != nil {
		return nil, err
	}
	table := &RightTable{
		Header:  cleanHeader(header),
		Records: make([]ValuationRecord, 0, len(rows)),
	}
	for i, row := range rows {
		value, ok := ParseMarketValue(cols.Cell(row, FieldMarketValue))
		table.Records = append(table.Records, ValuationRecord{
			Row:        i,
			ExternalID: cols.Cell(row, FieldExternalID),
			Identity: Identity{
				RawName: cols.Cell(row, FieldName),
				RawClub: cols.Cell(row, FieldClub),
				RawDOB:  cols.Cell(row, FieldBorn),
				RawAge:  cols.Cell(row, FieldAge),
			},
			MarketValue: value,
			HasValue:    ok,
			LastUpdate:  cols.Cell(row, FieldLastUpdate),
		})
	}
	return table, nil
}

func readFile(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, Wrap(ErrIO, "ingest", "open csv", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, cell := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
