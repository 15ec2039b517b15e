package main

import (
	"github.com/spf13/cobra"

	"vkfcheck/internal/check"
	"vkfcheck/internal/paths"
	"vkfcheck/internal/project"
	"vkfcheck/internal/storage"
	"vkfcheck/internal/version"
)

var (
	checkSave    bool
	checkProject string
)

var checkCmd = &cobra.Command{
	Use:   "check <model>",
	Short: "Compute height and area in one pass",
	Long: `Load the model once and compute both the building height and the
storey areas. With --save the result is recorded in the run history,
filed under the project from project.toml when one exists.

Examples:
  vkfcheck check house.ifc
  vkfcheck check house.ifc --save
  vkfcheck check house.ifc --save --project ../projects/seeblick.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkSave, "save", false, "Record the result in the run history")
	checkCmd.Flags().StringVar(&checkProject, "project", "", "Project file (default: project.toml in the workspace, if present)")
	rootCmd.AddCommand(checkCmd)
}

// CheckResponseCLI is a check report with its run and project, if any.
type CheckResponseCLI struct {
	RunID   string        `json:"runId,omitempty"`
	Project *project.Info `json:"project,omitempty"`
	Report  *check.Report `json:"report"`
}

// TextLines renders the report followed by the project and run lines.
func (r *CheckResponseCLI) TextLines() []string {
	lines := r.Report.TextLines()
	if r.Project != nil {
		label := r.Project.Number
		if r.Project.Name != "" {
			label += " " + r.Project.Name
		}
		lines = append(lines, "", "Project: "+label)
	}
	if r.RunID != "" {
		lines = append(lines, "Saved run: "+r.RunID)
	}
	return lines
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	modelPath := args[0]

	info, err := resolveProject()
	if err != nil {
		return err
	}

	report, err := newEngine().CheckPath(ctx, newLoader(), modelPath)
	if err != nil {
		return err
	}
	resp := &CheckResponseCLI{Project: info, Report: report}

	if checkSave {
		id, err := saveRun(cmd, report, info)
		if err != nil {
			return err
		}
		resp.RunID = id
	}

	return writeResponse(cmd.OutOrStdout(), resp)
}

// resolveProject loads --project, or the workspace project.toml when it
// exists. No project file is not an error unless --project names one.
func resolveProject() (*project.Info, error) {
	if checkProject != "" {
		return project.Load(checkProject)
	}
	if !paths.FileExists(paths.GetProjectPath(app.root)) {
		return nil, nil
	}
	return project.LoadDefault(app.root)
}

func saveRun(cmd *cobra.Command, report *check.Report, info *project.Info) (string, error) {
	db, runs, err := openRuns()
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	run := storage.NewRun(report)
	if canonical, err := paths.CanonicalizePath(report.ModelPath, app.root); err == nil {
		run.ModelPath = canonical
	}
	run.ToolVersion = version.Version
	if info != nil {
		run.ProjectNumber = info.Number
		run.ProjectName = info.Name
	}

	if err := runs.Save(cmd.Context(), run); err != nil {
		return "", err
	}
	app.logger.Info("run saved", "id", run.ID, "model", run.ModelPath, "db", db.Path())
	return run.ID, nil
}
