package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidem/ecsfleet/cmd/ecsfleet/handlers"
)

// Status returns the status command, which prints each owned node with
// its canonical status.
func Status() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the canonical status of every fleet node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, cmd.OutOrStdout(), verbosity(cmd))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to fleet configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
