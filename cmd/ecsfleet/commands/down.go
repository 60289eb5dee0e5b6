package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidem/ecsfleet/cmd/ecsfleet/handlers"
)

// Down returns the down command.
//
// Down deletes every node owned by the fleet tag, regardless of status.
func Down() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Terminate the fleet, deleting every node",
		Long: `Down deletes every node owned by the fleet, regardless of its state.

Deletion is acknowledged by the provider but not awaited; a deleted node
cannot be probed.

WARNING: This operation is irreversible. All node data will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Down(cmd.Context(), configPath, verbosity(cmd))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to fleet configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
