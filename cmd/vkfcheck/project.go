package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vkfcheck/internal/paths"
	"vkfcheck/internal/project"
)

var (
	projectNumber       string
	projectName         string
	projectUsage        string
	projectConstruction string
	projectForce        bool
	projectExample      bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project file",
	Long:  "Create and view project.toml, the project metadata saved runs are filed under",
}

var projectInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create project.toml in the workspace",
	Long: `Create project.toml in the workspace. The project number is required.

Examples:
  vkfcheck project init --number 2024-017 --name "Wohnhaus Seeblick"
  vkfcheck project init --number 2024-017 --construction timber --force
  vkfcheck project init --example`,
	Args: cobra.NoArgs,
	RunE: runProjectInit,
}

var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the workspace project",
	Args:  cobra.NoArgs,
	RunE:  runProjectShow,
}

func init() {
	projectInitCmd.Flags().StringVar(&projectNumber, "number", "", "Project number (required)")
	projectInitCmd.Flags().StringVar(&projectName, "name", "", "Project name")
	projectInitCmd.Flags().StringVar(&projectUsage, "usage", "", "Building use, e.g. residential")
	projectInitCmd.Flags().StringVar(&projectConstruction, "construction", string(project.ConstructionUnknown),
		"Construction: concrete, timber, steel, other or unknown")
	projectInitCmd.Flags().BoolVar(&projectForce, "force", false, "Overwrite an existing project.toml")
	projectInitCmd.Flags().BoolVar(&projectExample, "example", false, "Write a placeholder project to edit by hand")

	projectCmd.AddCommand(projectInitCmd)
	projectCmd.AddCommand(projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}

// ProjectResponseCLI is a project with the file it lives in.
type ProjectResponseCLI struct {
	Path    string        `json:"path"`
	Project *project.Info `json:"project"`
}

// TextLines renders one line per project field.
func (r *ProjectResponseCLI) TextLines() []string {
	p := r.Project
	lines := []string{
		"Project file: " + r.Path,
		"Number: " + p.Number,
	}
	if p.Name != "" {
		lines = append(lines, "Name: "+p.Name)
	}
	if p.Usage != "" {
		lines = append(lines, "Usage: "+p.Usage)
	}
	if p.Construction != "" {
		lines = append(lines, "Construction: "+string(p.Construction))
	}
	return lines
}

func runProjectInit(cmd *cobra.Command, args []string) error {
	info := &project.Info{
		Number:       projectNumber,
		Name:         projectName,
		Usage:        projectUsage,
		Construction: project.Construction(projectConstruction),
	}
	if projectExample {
		info = project.Example()
	}
	path := paths.GetProjectPath(app.root)
	if err := info.Save(path, projectForce); err != nil {
		return err
	}
	app.logger.Info("project file written", "path", path)
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return err
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	path := paths.GetProjectPath(app.root)
	info, err := project.Load(path)
	if err != nil {
		return err
	}
	return writeResponse(cmd.OutOrStdout(), &ProjectResponseCLI{Path: path, Project: info})
}
