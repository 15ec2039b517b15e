package main

import (
	"github.com/spf13/cobra"

	"vkfcheck/internal/loader"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <model>",
	Short: "Show schema and entity counts of a model",
	Long: `Load a model without evaluating it and report its schema, the number of
placed products, storeys and spaces, and the length unit.

Examples:
  vkfcheck summary house.ifc
  vkfcheck summary house.ifc -vv      # debug log of the parse`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	m, err := newLoader().Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	s := loader.Summarize(m)
	s.Path = args[0]
	s.Format, _ = loader.DetectFormat(args[0])
	return writeResponse(cmd.OutOrStdout(), s)
}
