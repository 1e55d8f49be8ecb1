package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playerxref/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	outputDir  string
	dbPath     string
	leftPath   string
	rightPath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("PLAYERXREF_SEASON_YEAR", "")
	t.Setenv("PLAYERXREF_LOG_LEVEL", "")

	env := &cliTestEnv{
		configPath: filepath.Join(homeDir, ".config", "playerxref", "config.toml"),
		outputDir:  filepath.Join(base, "out"),
		dbPath:     filepath.Join(base, "runs.db"),
		leftPath:   filepath.Join(base, "in", "fbref.csv"),
		rightPath:  filepath.Join(base, "in", "tm.csv"),
	}
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
database_path = %q

[linkage]
season_year = 2024
workers = 2

[clubs.aliases]
"velez" = "velez sarsfield"

[logging]
level = "error"
`, env.outputDir, filepath.Join(base, "logs"), env.dbPath)
	if err := os.MkdirAll(filepath.Dir(env.configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	testsupport.WriteCSV(t, env.leftPath, []string{"Player", "Squad", "Born", "Pos"}, [][]string{
		{"Lionel Messi", "Inter Miami", "1987", "FW"},
		{"Juan Román Riquelme", "Boca Juniors", "1978", "MF"},
		{"Nobody Here", "Some Club", "1999", "DF"},
	})
	testsupport.WriteCSV(t, env.rightPath, []string{"player_id", "player_name", "club_name", "dob", "market_value_eur"}, [][]string{
		{"28003", "L. Messi", "Inter Miami CF", "24/06/1987", "€35m"},
		{"4360", "Juan Roman Riquelme", "CA Boca Juniors", "1978-06-24", ""},
	})
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
