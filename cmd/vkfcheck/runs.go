package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vkfcheck/internal/output"
	"vkfcheck/internal/storage"
)

var (
	runsLimit   int
	runsModel   string
	runsProject string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run history",
	Long:  "List, show and delete check results saved with 'vkfcheck check --save'",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	Long: `List saved runs, newest first.

Examples:
  vkfcheck runs list
  vkfcheck runs list --limit 5
  vkfcheck runs list --project 2024-017 --format json`,
	Args: cobra.NoArgs,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved run with its storeys",
	Long:  "Show one saved run. The id may be shortened to a unique prefix of at least four characters.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs (0 for all)")
	runsListCmd.Flags().StringVar(&runsModel, "model", "", "Only runs of this model path (as stored)")
	runsListCmd.Flags().StringVar(&runsProject, "project", "", "Only runs of this project number")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

// RunListResponseCLI is the output of runs list.
type RunListResponseCLI struct {
	Database string        `json:"database"`
	Runs     []storage.Run `json:"runs"`
}

// TextLines renders one line per run.
func (r *RunListResponseCLI) TextLines() []string {
	if len(r.Runs) == 0 {
		return []string{"No saved runs."}
	}
	lines := make([]string, 0, len(r.Runs))
	for _, run := range r.Runs {
		lines = append(lines, fmt.Sprintf("%s  %s  %-9s  %9s m  %10s m²  %s",
			shortID(run.ID),
			run.CreatedAt.Local().Format(time.DateTime),
			run.HeightCategory,
			optional(run.HeightM, 2),
			optional(run.TotalAreaM2, 1),
			run.ModelPath,
		))
	}
	return lines
}

// RunResponseCLI is the output of runs show.
type RunResponseCLI struct {
	Run *storage.Run `json:"run"`
}

// TextLines renders the run header followed by its storeys.
func (r *RunResponseCLI) TextLines() []string {
	run := r.Run
	lines := []string{
		"Run: " + run.ID,
		"Created: " + run.CreatedAt.Local().Format(time.DateTime),
		"Model: " + run.ModelPath,
	}
	if run.Schema != "" {
		lines = append(lines, "Schema: "+run.Schema)
	}
	if run.ProjectNumber != "" {
		lines = append(lines, "Project: "+run.ProjectNumber+" "+run.ProjectName)
	}
	lines = append(lines,
		"Height [m]: "+optional(run.HeightM, output.Precision),
		"Building category (VKF, height): "+run.HeightCategory,
		"Building area [m²]: "+optional(run.TotalAreaM2, 1),
	)
	if run.SmallBuilding != "" {
		lines = append(lines, "Small-footprint assessment: "+run.SmallBuilding)
	}
	lines = append(lines, fmt.Sprintf("Spaces: %d (%d unassigned)", run.Spaces, run.UnassignedSpaces))

	if len(run.Storeys) > 0 {
		lines = append(lines, "", "Storey areas:")
		for _, s := range run.Storeys {
			name := s.Name
			if name == "" {
				name = "<unnamed>"
			}
			line := fmt.Sprintf("  - %s (z = %s m): %s m²", name, optional(s.ElevationM, 2), output.FormatFixed(s.AreaM2, 1))
			if s.Comment != "" {
				line += " [" + s.Comment + "]"
			}
			lines = append(lines, line)
		}
	}
	return lines
}

func runRunsList(cmd *cobra.Command, args []string) error {
	db, runs, err := openRuns()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	list, err := runs.List(cmd.Context(), storage.ListOptions{
		Limit:         runsLimit,
		ModelPath:     runsModel,
		ProjectNumber: runsProject,
	})
	if err != nil {
		return err
	}
	return writeResponse(cmd.OutOrStdout(), &RunListResponseCLI{Database: db.Path(), Runs: list})
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	db, runs, err := openRuns()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	run, err := runs.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeResponse(cmd.OutOrStdout(), &RunResponseCLI{Run: run})
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	db, runs, err := openRuns()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := runs.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	app.logger.Info("run deleted", "id", args[0])
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func optional(v *float64, places int) string {
	if v == nil {
		return "n/a"
	}
	return output.FormatFixed(*v, places)
}
