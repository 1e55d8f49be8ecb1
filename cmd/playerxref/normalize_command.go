package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"playerxref/internal/linkage"
	"playerxref/internal/normalize"
	"playerxref/internal/records"
)

type normalizedIdentity struct {
	Name               string   `json:"name"`
	NameKey            string   `json:"name_key"`
	FirstLast          string   `json:"first_last"`
	Club               string   `json:"club"`
	DOB                string   `json:"dob,omitempty"`
	BirthYear          int      `json:"birth_year,omitempty"`
	BirthYearEstimated bool     `json:"birth_year_estimated"`
	Keys               []string `json:"keys"`
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var club, dob, age string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "normalize NAME",
		Short: "Show how one identity normalizes and which candidate keys it produces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			n, err := normalize.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			id := records.Identity{
				RawName: strings.Join(args, " "),
				RawClub: club,
				RawDOB:  dob,
				RawAge:  age,
			}
			n.Identity(&id)
			view := describeIdentity(id)

			if jsonOutput {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			year := ""
			if view.BirthYear > 0 {
				year = strconv.Itoa(view.BirthYear)
				if view.BirthYearEstimated {
					year += fmt.Sprintf(" (estimated from age, season %d)", n.SeasonYear())
				}
			}
			rows := [][]string{
				{"name", view.Name},
				{"name_key", view.NameKey},
				{"first_last", view.FirstLast},
				{"club", view.Club},
				{"dob", view.DOB},
				{"birth_year", year},
			}
			for i, key := range view.Keys {
				rows = append(rows, []string{fmt.Sprintf("key %d", i+1), key})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Field", "Value"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&club, "club", "", "Raw club name")
	cmd.Flags().StringVar(&dob, "dob", "", "Raw date of birth or birth year")
	cmd.Flags().StringVar(&age, "age", "", "Raw age, used when no date parses")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output JSON")
	return cmd
}

func describeIdentity(id records.Identity) normalizedIdentity {
	view := normalizedIdentity{
		Name:               id.Name,
		NameKey:            id.NameKey,
		FirstLast:          id.FirstLast,
		Club:               id.Club,
		DOB:                id.DOB,
		BirthYear:          id.BirthYear,
		BirthYearEstimated: id.BirthYearEstimated,
		Keys:               []string{},
	}
	if !id.HasName() {
		return view
	}
	for _, key := range linkage.BuildKeys(id) {
		view.Keys = append(view.Keys, formatKey(key))
	}
	return view
}

func formatKey(key linkage.CandidateKey) string {
	parts := []string{key.Name}
	if key.Club != "" {
		parts = append(parts, key.Club)
	}
	if key.Year > 0 {
		parts = append(parts, strconv.Itoa(key.Year))
	}
	if key.DOB != "" {
		parts = append(parts, key.DOB)
	}
	return key.Kind.String() + ": " + strings.Join(parts, " | ")
}
