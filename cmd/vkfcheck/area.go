package main

import (
	"github.com/spf13/cobra"

	"vkfcheck/internal/check"
)

var areaCmd = &cobra.Command{
	Use:   "area <model>",
	Short: "Sum the storey floor areas from space quantities",
	Long: `Assign every space to its storey and sum the space floor areas per
storey. The building area is the sum over all storeys with a positive area.

Examples:
  vkfcheck area house.ifc
  vkfcheck area house.yaml --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runArea,
}

func init() {
	rootCmd.AddCommand(areaCmd)
}

func runArea(cmd *cobra.Command, args []string) error {
	svc := check.NewAreaService(newLoader(), newEngine())
	res, err := svc.ComputeFromPath(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	app.logger.Info("area computed", "model", args[0], "storeys", len(res.Storeys))
	return writeResponse(cmd.OutOrStdout(), res)
}
