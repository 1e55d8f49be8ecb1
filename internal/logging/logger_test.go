package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playerxref/internal/config"
	"playerxref/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("config logger ready")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "playerxref.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "config logger ready") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerFlattensGroupsAndKeepsLatestValue(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-groups.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.WithGroup("thresholds").With("club", 90).Info("options", "club", 92, "quoted", "two words")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(content)
	if !strings.Contains(got, "    - thresholds.club: 92") {
		t.Fatalf("expected grouped key with latest value, got %q", got)
	}
	if strings.Count(got, "thresholds.club") != 1 {
		t.Fatalf("expected duplicate key to collapse, got %q", got)
	}
	if !strings.Contains(got, `thresholds.quoted: "two words"`) {
		t.Fatalf("expected quoted value, got %q", got)
	}
}

func TestConsoleLoggerRendersComponentAndSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithStage(logging.WithRunID(context.Background(), "0123456789abcdef"), "fuzzy_club")
	scoped := logging.WithContext(ctx, logging.NewComponentLogger(logger, "linkage"))
	scoped.Info("stage complete", logging.Args(logging.Int("matched", 3))...)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(content)
	for _, want := range []string{"INFO [linkage]", "Run 01234567 (fuzzy_club)", "stage complete", "    - matched: 3"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}
	if strings.Contains(got, "run_id:") {
		t.Fatalf("run_id should be folded into the header, got %q", got)
	}
}

func TestJSONLoggerRenamesStandardKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", logging.Args(logging.String(logging.FieldSide, "left"))...)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if entry["msg"] != "json message" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "warn" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", entry)
	}
	if entry[logging.FieldSide] != "left" {
		t.Fatalf("expected side attr, got %v", entry)
	}
	if src, _ := entry["source"].(string); !strings.HasPrefix(src, "logger_test.go:") {
		t.Fatalf("expected debug level to carry a short source, got %v", entry["source"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("noop logger should not be enabled")
	}
	logger.Error("ignored")
}

func TestContextFieldsEmptyWithoutValues(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
	ctx := logging.WithRunID(context.Background(), "  ")
	if _, ok := logging.RunIDFromContext(ctx); ok {
		t.Fatal("blank run id should not be attached")
	}
}
