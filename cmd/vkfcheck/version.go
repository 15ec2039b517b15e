package main

import (
	"strings"

	"github.com/spf13/cobra"

	"vkfcheck/internal/version"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipValidation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeResponse(cmd.OutOrStdout(), versionResponse{
			Version:   version.Version,
			Commit:    version.Commit,
			BuildDate: version.BuildDate,
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

type versionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
}

func (v versionResponse) TextLines() []string {
	return strings.Split(version.Full(), "\n")
}
