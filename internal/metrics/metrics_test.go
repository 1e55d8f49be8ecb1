package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"playerxref/internal/assemble"
	"playerxref/internal/linkage"
	"playerxref/internal/metrics"
	"playerxref/internal/records"
)

func sampleOutput() *assemble.Output {
	return &assemble.Output{
		Linked: []assemble.LinkedRow{
			{LeftID: "a", Matched: true, Method: linkage.MethodNameClubYear, Score: 100},
			{LeftID: "b", Matched: true, Method: linkage.MethodNameClubYear, Score: 100},
			{LeftID: "c", Matched: true, Method: linkage.MethodFuzzyGlobal, Score: 94.5},
			{LeftID: "d", Reason: linkage.ReasonNoMatch},
		},
		Unmatched: []assemble.UnmatchedRow{{ID: "d", Reason: linkage.ReasonNoMatch}},
	}
}

func TestRecorderCollectsRunMetrics(t *testing.T) {
	rec := metrics.New()
	rec.RecordRecords(records.SideLeft, 4)
	rec.RecordRecords(records.SideRight, 7)
	rec.StageCompleted(linkage.StageStats{Stage: linkage.MethodNameClubYear, Matched: 2, Duration: 3 * time.Millisecond})
	rec.RecordOutput(sampleOutput())

	families, err := rec.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}
	for _, want := range []string{
		"playerxref_links_total",
		"playerxref_unmatched_total",
		"playerxref_stage_duration_seconds",
		"playerxref_stage_links_total",
		"playerxref_records",
		"playerxref_runs_total",
	} {
		if !names[want] {
			t.Fatalf("expected metric family %s, got %v", want, names)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	rec := metrics.New()
	rec.RecordRecords(records.SideLeft, 4)
	rec.RecordOutput(sampleOutput())

	path := filepath.Join(t.TempDir(), "playerxref.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`playerxref_links_total{method="name+club+birth_year"} 2`,
		`playerxref_links_total{method="fuzzy_global"} 1`,
		`playerxref_unmatched_total{reason="no_match"} 1`,
		`playerxref_records{side="left"} 4`,
		`playerxref_runs_total 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in textfile:\n%s", want, text)
		}
	}
}

func TestWriteTextfileSkipsEmptyPath(t *testing.T) {
	if err := metrics.New().WriteTextfile("  "); err != nil {
		t.Fatalf("expected no error for empty path, got %v", err)
	}
}

// promauto panics on duplicate registration against a shared registry.
func TestRecordersAreIsolated(t *testing.T) {
	first := metrics.New(metrics.WithNamespace("first"))
	second := metrics.New(metrics.WithNamespace("first"))
	first.RecordOutput(sampleOutput())
	second.RecordOutput(sampleOutput())
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *metrics.Recorder
	rec.StageCompleted(linkage.StageStats{Stage: "x"})
	rec.RecordRecords(records.SideLeft, 1)
	rec.RecordOutput(sampleOutput())
}
