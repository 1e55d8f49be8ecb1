package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playerxref/internal/linkage"
	"playerxref/internal/store"
)

type runView struct {
	ID              string                `json:"id"`
	CreatedAt       string                `json:"created_at"`
	LeftPath        string                `json:"left_path"`
	RightPath       string                `json:"right_path"`
	SeasonYear      int                   `json:"season_year"`
	LeftRecords     int                   `json:"left_records"`
	RightRecords    int                   `json:"right_records"`
	Matched         int                   `json:"matched"`
	Unmatched       int                   `json:"unmatched"`
	ThresholdClub   float64               `json:"threshold_club"`
	ThresholdGlobal float64               `json:"threshold_global"`
	AmbiguityMargin float64               `json:"ambiguity_margin"`
	YearTolerance   int                   `json:"year_tolerance"`
	DurationMs      int64                 `json:"duration_ms"`
	Breakdown       []linkage.MethodCount `json:"breakdown,omitempty"`
	Links           []linkView            `json:"links,omitempty"`
}

type linkView struct {
	LeftID      string  `json:"left_id"`
	ExternalID  string  `json:"external_id"`
	MarketValue *int64  `json:"market_value"`
	DOB         string  `json:"dob,omitempty"`
	Age         int     `json:"age,omitempty"`
	Method      string  `json:"method"`
	Score       float64 `json:"score"`
}

func toLinkViews(links []store.Link) []linkView {
	views := make([]linkView, 0, len(links))
	for _, link := range links {
		view := linkView{
			LeftID:     link.LeftID,
			ExternalID: link.ExternalID,
			DOB:        link.DOB,
			Age:        link.Age,
			Method:     link.Method,
			Score:      link.Score,
		}
		if link.HasValue {
			value := link.MarketValue
			view.MarketValue = &value
		}
		views = append(views, view)
	}
	return views
}

func linkRows(links []store.Link) [][]string {
	rows := make([][]string, 0, len(links))
	for _, link := range links {
		value := ""
		if link.HasValue {
			value = strconv.FormatInt(link.MarketValue, 10)
		}
		rows = append(rows, []string{link.LeftID, link.ExternalID, value, link.Method, strconv.FormatFloat(link.Score, 'f', 2, 64)})
	}
	return rows
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Browse runs recorded in the audit database",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))
	return runsCmd
}

func withStore(ctx *commandContext, fn func(*store.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	s, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open audit database: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(s *store.Store) error {
				runs, err := s.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					views := make([]runView, 0, len(runs))
					for _, run := range runs {
						views = append(views, toRunView(run, nil))
					}
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
						strconv.Itoa(run.SeasonYear),
						strconv.Itoa(run.Matched),
						strconv.Itoa(run.Unmatched),
						fmt.Sprintf("%.1f%%", 100*run.MatchRate()),
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Run", "Created", "Season", "Matched", "Unmatched", "Rate"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var withLinks bool

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show one run with its method breakdown and, optionally, its links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(s *store.Store) error {
				run, err := resolveRun(cmd, s, args[0])
				if err != nil {
					return err
				}
				breakdown, err := s.MethodBreakdown(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				var links []store.Link
				if withLinks {
					if links, err = s.Links(cmd.Context(), run.ID); err != nil {
						return err
					}
				}
				if jsonOutput {
					view := toRunView(*run, breakdown)
					if withLinks {
						view.Links = toLinkViews(links)
					}
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				details := [][]string{
					{"Run", run.ID},
					{"Created", run.CreatedAt.Local().Format(time.RFC3339)},
					{"Left", run.LeftPath},
					{"Right", run.RightPath},
					{"Season", strconv.Itoa(run.SeasonYear)},
					{"Records", fmt.Sprintf("%d left / %d right", run.LeftRecords, run.RightRecords)},
					{"Thresholds", fmt.Sprintf("club %.1f / global %.1f / margin %.1f", run.ThresholdClub, run.ThresholdGlobal, run.AmbiguityMargin)},
					{"Year tolerance", strconv.Itoa(run.YearTolerance)},
					{"Duration", run.Duration.String()},
				}
				fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, details, nil))
				rows := breakdownRows(breakdown, run.Matched+run.Unmatched)
				fmt.Fprintln(out, renderTable(out, []string{"Method", "Count", "Share"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
				if withLinks {
					if len(links) == 0 {
						fmt.Fprintln(out, "No links recorded")
						return nil
					}
					fmt.Fprintln(out, renderTable(out,
						[]string{"Left ID", "External ID", "Market value", "Method", "Score"},
						linkRows(links),
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&withLinks, "links", false, "Include the linked players of the run")
	return cmd
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Delete one run from the audit database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(ctx, func(s *store.Store) error {
				run, err := resolveRun(cmd, s, args[0])
				if err != nil {
					return err
				}
				removed, err := s.DeleteRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("run %s not found", run.ID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", run.ID)
				return nil
			})
		},
	}
}

// resolveRun accepts a full run id or a unique prefix of a recent run.
func resolveRun(cmd *cobra.Command, s *store.Store, raw string) (*store.Run, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return nil, errors.New("run id is required")
	}
	run, err := s.GetRun(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}
	recent, err := s.ListRuns(cmd.Context(), 1000)
	if err != nil {
		return nil, err
	}
	var found *store.Run
	for i := range recent {
		if !strings.HasPrefix(recent[i].ID, id) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
		}
		found = &recent[i]
	}
	if found == nil {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return found, nil
}

func toRunView(run store.Run, breakdown []linkage.MethodCount) runView {
	return runView{
		ID:              run.ID,
		CreatedAt:       run.CreatedAt.UTC().Format(time.RFC3339),
		LeftPath:        run.LeftPath,
		RightPath:       run.RightPath,
		SeasonYear:      run.SeasonYear,
		LeftRecords:     run.LeftRecords,
		RightRecords:    run.RightRecords,
		Matched:         run.Matched,
		Unmatched:       run.Unmatched,
		ThresholdClub:   run.ThresholdClub,
		ThresholdGlobal: run.ThresholdGlobal,
		AmbiguityMargin: run.AmbiguityMargin,
		YearTolerance:   run.YearTolerance,
		DurationMs:      run.Duration.Milliseconds(),
		Breakdown:       breakdown,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
