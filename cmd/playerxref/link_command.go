package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playerxref/internal/config"
	"playerxref/internal/linkage"
	"playerxref/internal/metrics"
	"playerxref/internal/pipeline"
)

type linkFlags struct {
	left            string
	right           string
	outDir          string
	seasonYear      int
	thresholdClub   float64
	thresholdGlobal float64
	yearTolerance   int
	workers         int
	jsonOutput      bool
	sqlite          bool
	metricsFile     string
}

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var flags linkFlags

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link a performance feed against a valuation feed",
		Long: `Link reads the performance (left) and valuation (right) CSV feeds, runs the
deterministic cascade followed by the fuzzy stages, and writes linked.csv and
unmatched.csv (or linked.json with --json) to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyLinkOverrides(cmd, base, flags)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			recorder := metrics.New()
			runner, err := pipeline.New(cfg, logger, recorder)
			if err != nil {
				return err
			}
			report, err := runner.Run(cmd.Context(), pipeline.Request{LeftPath: flags.left, RightPath: flags.right})
			if err != nil {
				return err
			}
			published, err := runner.Publish(cmd.Context(), report, pipeline.PublishOptions{
				OutputDir:   flags.outDir,
				JSON:        flags.jsonOutput,
				SQLite:      flags.sqlite,
				MetricsFile: flags.metricsFile,
			})
			if err != nil {
				return err
			}
			return printLinkSummary(cmd, report, published)
		},
	}

	cmd.Flags().StringVar(&flags.left, "left", "", "Performance feed CSV (required)")
	cmd.Flags().StringVar(&flags.right, "right", "", "Valuation feed CSV (required)")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "Output directory (default paths.output_dir)")
	cmd.Flags().IntVar(&flags.seasonYear, "season-year", 0, "Season year used to estimate birth years from ages")
	cmd.Flags().Float64Var(&flags.thresholdClub, "threshold-club", 0, "Minimum club-scoped fuzzy score")
	cmd.Flags().Float64Var(&flags.thresholdGlobal, "threshold-global", 0, "Minimum global fuzzy score")
	cmd.Flags().IntVar(&flags.yearTolerance, "year-tolerance", 0, "Birth-year window for the shifted stages")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Scoring goroutines (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&flags.jsonOutput, "json", false, "Write linked.json instead of the CSV outputs")
	cmd.Flags().BoolVar(&flags.sqlite, "sqlite", false, "Record the run in the audit database")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	_ = cmd.MarkFlagRequired("left")
	_ = cmd.MarkFlagRequired("right")

	return cmd
}

// applyLinkOverrides returns a copy of base with the changed flags applied.
func applyLinkOverrides(cmd *cobra.Command, base *config.Config, flags linkFlags) (*config.Config, error) {
	if strings.TrimSpace(flags.left) == "" || strings.TrimSpace(flags.right) == "" {
		return nil, errors.New("both --left and --right are required")
	}
	cfg := *base
	changed := cmd.Flags().Changed
	if changed("season-year") {
		cfg.SetSeasonYear(flags.seasonYear)
	}
	if changed("threshold-club") {
		cfg.Linkage.ThresholdClub = flags.thresholdClub
	}
	if changed("threshold-global") {
		cfg.Linkage.ThresholdGlobal = flags.thresholdGlobal
	}
	if changed("year-tolerance") {
		cfg.Linkage.YearTolerance = flags.yearTolerance
	}
	if changed("workers") {
		cfg.Linkage.Workers = flags.workers
	}
	if flags.outDir != "" {
		expanded, err := config.ExpandPath(flags.outDir)
		if err != nil {
			return nil, fmt.Errorf("resolve --out: %w", err)
		}
		cfg.Paths.OutputDir = expanded
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &cfg, nil
}

func printLinkSummary(cmd *cobra.Command, report *pipeline.Report, published *pipeline.Published) error {
	out := cmd.OutOrStdout()
	matched := report.Output.MatchedCount()
	total := len(report.Output.Linked)
	fmt.Fprintf(out, "Run %s: linked %d of %d players (%d unmatched)\n",
		report.RunID, matched, total, len(report.Output.Unmatched))

	rows := breakdownRows(report.Output.Breakdown(), total)
	fmt.Fprintln(out, renderTable(out, []string{"Method", "Count", "Share"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))

	for _, path := range published.Files {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	if published.MetricsFile != "" {
		fmt.Fprintf(out, "Wrote metrics %s\n", published.MetricsFile)
	}
	if published.RunStored {
		fmt.Fprintf(out, "Recorded run %s in the audit database\n", report.RunID)
	}
	return nil
}

func breakdownRows(counts []linkage.MethodCount, total int) [][]string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		share := "0.0%"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(c.Count)/float64(total))
		}
		rows = append(rows, []string{c.Method, strconv.Itoa(c.Count), share})
	}
	return rows
}
