package main

import (
	"github.com/spf13/cobra"

	"vkfcheck/internal/check"
)

var heightCmd = &cobra.Command{
	Use:   "height <model>",
	Short: "Compute the building height and its VKF category",
	Long: `Compute the building height as the vertical distance between the lowest
and the highest storey, and classify it as low-rise, mid-rise or high-rise.

Examples:
  vkfcheck height house.ifc
  vkfcheck height house.ifczip --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runHeight,
}

func init() {
	rootCmd.AddCommand(heightCmd)
}

func runHeight(cmd *cobra.Command, args []string) error {
	svc := check.NewHeightService(newLoader(), newEngine())
	res, err := svc.ComputeFromPath(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	app.logger.Info("height computed", "model", args[0], "category", res.Category)
	return writeResponse(cmd.OutOrStdout(), res)
}
