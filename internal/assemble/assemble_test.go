package assemble_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"playerxref/internal/assemble"
	"playerxref/internal/linkage"
	"playerxref/internal/normalize"
	"playerxref/internal/records"
	"playerxref/internal/testsupport"
)

var reference = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func pipeline(t *testing.T, left *records.LeftTable, right *records.RightTable) (*assemble.Output, []linkage.LinkResult) {
	t.Helper()
	n, err := normalize.New(normalize.Options{SeasonYear: 2024})
	if err != nil {
		t.Fatalf("normalize.New: %v", err)
	}
	n.ApplyLeft(left.Records)
	n.ApplyRight(right.Records)

	engine, err := linkage.New(linkage.DefaultOptions())
	if err != nil {
		t.Fatalf("linkage.New: %v", err)
	}
	result, err := engine.Link(context.Background(), left.Records, right.Records)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	out, err := assemble.Assemble(left, right, result.Links, assemble.Options{ReferenceDate: reference})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return out, result.Links
}

func sampleTables() (*records.LeftTable, *records.RightTable) {
	left := testsupport.LeftTable(
		testsupport.Left(0, "Lionel Messi", "Inter Miami", "1987"),
		testsupport.Left(1, "Nobody Here", "Some Club", "1999"),
		testsupport.Left(2, "", "Boca Juniors", "2001"),
	)
	right := testsupport.RightTable(
		testsupport.Right(0, "L. Messi", "Inter Miami CF", "24/06/1987", 60_000_000),
		testsupport.Right(1, "Someone Else", "Elsewhere", "1990-01-01", 0),
	)
	return left, right
}

func TestAssembleLinkedRow(t *testing.T) {
	left, right := sampleTables()
	out, _ := pipeline(t, left, right)

	wantHeader := append(testsupport.LeftHeader(), assemble.LinkedColumns...)
	if !reflect.DeepEqual(out.Header, wantHeader) {
		t.Fatalf("unexpected header: %v", out.Header)
	}
	if len(out.Linked) != 3 {
		t.Fatalf("expected every left row in the linked table, got %d", len(out.Linked))
	}

	got := out.Linked[0].Record()
	want := []string{"Lionel Messi", "Inter Miami", "1987", "1000", "60000000", "1987-06-24", "37", linkage.MethodNameKeyClubYear, "100.00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected linked record:\n got %v\nwant %v", got, want)
	}

	blank := out.Linked[1].Record()
	for i, cell := range blank[len(testsupport.LeftHeader()):] {
		if cell != "" {
			t.Fatalf("expected empty linked column %s for unmatched row, got %q", assemble.LinkedColumns[i], cell)
		}
	}
	if out.MatchedCount() != 1 {
		t.Fatalf("expected one matched row, got %d", out.MatchedCount())
	}
}

func TestAssembleUnmatchedReport(t *testing.T) {
	left, right := sampleTables()
	out, _ := pipeline(t, left, right)

	want := [][]string{
		{"row-2", "Nobody Here", "Some Club", "1999", "nobody here", "n here", "nobody here", "some club", "1999", linkage.ReasonNoMatch},
		{"row-3", "", "Boca Juniors", "2001", "", "", "", "boca juniors", "2001", linkage.ReasonMissingName},
	}
	if got := out.UnmatchedRecords(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected unmatched report:\n got %v\nwant %v", got, want)
	}
}

func TestAssembleBreakdown(t *testing.T) {
	left, right := sampleTables()
	out, links := pipeline(t, left, right)

	if got, want := out.Breakdown(), linkage.Breakdown(links); !reflect.DeepEqual(got, want) {
		t.Fatalf("breakdown mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestAssembleResolvesLeftDOBWhenRightHasNone(t *testing.T) {
	left := testsupport.LeftTable(testsupport.Left(0, "Paulo Dybala", "Roma", "1993-11-15"))
	right := testsupport.RightTable(testsupport.Right(0, "Paulo Dybala", "Roma", "", 12_000_000))
	right.Records[0].Identity.RawAge = "30"
	out, _ := pipeline(t, left, right)

	row := out.Linked[0]
	if !row.Matched {
		t.Fatalf("expected a link, got %+v", row)
	}
	if row.DOB != "1993-11-15" {
		t.Fatalf("expected left DOB fallback, got %q", row.DOB)
	}
	if row.Age != 30 {
		t.Fatalf("expected the valuation age to win, got %d", row.Age)
	}
}

func TestAssembleRejectsDuplicateLeftIDs(t *testing.T) {
	first := testsupport.Left(0, "Nobody Here", "Some Club", "1999")
	second := testsupport.Left(1, "Lionel Messi", "Inter Miami", "1987")
	second.ID = first.ID
	left := testsupport.LeftTable(first, second)
	links := []linkage.LinkResult{
		{Left: 0, Right: -1, Reason: linkage.ReasonNoMatch},
		{Left: 1, Right: -1, Reason: linkage.ReasonNoMatch},
	}

	_, err := assemble.Assemble(left, testsupport.RightTable(), links, assemble.Options{ReferenceDate: reference})
	if !errors.Is(err, records.ErrValidation) {
		t.Fatalf("expected validation error for duplicate ids, got %v", err)
	}
}

func TestAssembleRejectsLinkCountMismatch(t *testing.T) {
	left, right := sampleTables()
	_, err := assemble.Assemble(left, right, nil, assemble.Options{})
	if !errors.Is(err, records.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssembleIsIdempotent(t *testing.T) {
	left, right := sampleTables()
	out, links := pipeline(t, left, right)
	again, err := assemble.Assemble(left, right, links, assemble.Options{ReferenceDate: reference})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	render := func(o *assemble.Output) []byte {
		var buf bytes.Buffer
		if err := o.WriteLinkedCSV(&buf); err != nil {
			t.Fatalf("WriteLinkedCSV: %v", err)
		}
		if err := o.WriteUnmatchedCSV(&buf); err != nil {
			t.Fatalf("WriteUnmatchedCSV: %v", err)
		}
		if err := o.WriteJSON(&buf); err != nil {
			t.Fatalf("WriteJSON: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(render(out), render(again)) {
		t.Fatal("expected byte-identical output across runs")
	}
}

func TestWriteJSONUsesNullForAbsentValues(t *testing.T) {
	left, right := sampleTables()
	out, _ := pipeline(t, left, right)

	var buf bytes.Buffer
	if err := out.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var doc struct {
		Linked    []map[string]any `json:"linked"`
		Unmatched []map[string]any `json:"unmatched"`
		Breakdown []struct {
			Method string `json:"method"`
			Count  int    `json:"count"`
		} `json:"breakdown"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Linked) != 3 || len(doc.Unmatched) != 2 {
		t.Fatalf("unexpected sizes: %d linked, %d unmatched", len(doc.Linked), len(doc.Unmatched))
	}
	if doc.Linked[0]["market_value"] != float64(60_000_000) || doc.Linked[0]["link_score"] != float64(100) {
		t.Fatalf("unexpected matched entry: %v", doc.Linked[0])
	}
	for _, key := range []string{"external_id", "market_value", "link_method", "link_score"} {
		value, ok := doc.Linked[1][key]
		if !ok || value != nil {
			t.Fatalf("expected %s to be null, got %v (present=%v)", key, value, ok)
		}
	}
	if doc.Unmatched[1]["birth_year"] != float64(2001) {
		t.Fatalf("unexpected unmatched entry: %v", doc.Unmatched[1])
	}
	if len(doc.Breakdown) != 3 {
		t.Fatalf("unexpected breakdown: %+v", doc.Breakdown)
	}
}

func TestWriteJSONKeepsRepeatedHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   map[string]string
	}{
		{
			"repeated column",
			[]string{"Player", "Gls", "Gls", "Gls"},
			map[string]string{"Player": "Lionel Messi", "Gls": "1", "Gls__dup1": "2", "Gls__dup2": "3"},
		},
		{
			"suffix already taken",
			[]string{"Player", "Gls", "Gls__dup1", "Gls"},
			map[string]string{"Player": "Lionel Messi", "Gls": "1", "Gls__dup1": "2", "Gls__dup2": "3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &assemble.Output{
				Header: append(append([]string{}, tt.header...), assemble.LinkedColumns...),
				Linked: []assemble.LinkedRow{{
					LeftID: "row-1",
					Cells:  []string{"Lionel Messi", "1", "2", "3"},
					Reason: linkage.ReasonNoMatch,
				}},
			}
			var buf bytes.Buffer
			if err := out.WriteJSON(&buf); err != nil {
				t.Fatalf("WriteJSON: %v", err)
			}
			var doc struct {
				Linked []struct {
					Fields map[string]string `json:"fields"`
				} `json:"linked"`
			}
			if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(doc.Linked) != 1 || !reflect.DeepEqual(doc.Linked[0].Fields, tt.want) {
				t.Fatalf("unexpected fields: %+v", doc.Linked)
			}
		})
	}
}

func TestWriteFiles(t *testing.T) {
	left, right := sampleTables()
	out, _ := pipeline(t, left, right)
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := out.WriteFiles(dir, false)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != assemble.LinkedCSVName || filepath.Base(paths[1]) != assemble.UnmatchedCSVName {
		t.Fatalf("unexpected paths: %v", paths)
	}
	file, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("open linked: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read linked: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header plus three rows, got %d", len(rows))
	}

	paths, err = out.WriteFiles(dir, true)
	if err != nil {
		t.Fatalf("WriteFiles json: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != assemble.LinkedJSONName {
		t.Fatalf("unexpected json paths: %v", paths)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}
