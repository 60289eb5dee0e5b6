package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidem/ecsfleet/cmd/ecsfleet/handlers"
)

// Stop returns the stop command.
//
// Stop powers off every running node and waits until the whole fleet
// reports stopped. Nodes are kept and can be resumed with up.
func Stop() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Power off all fleet nodes and wait until they are stopped",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Stop(cmd.Context(), configPath, verbosity(cmd))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to fleet configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
