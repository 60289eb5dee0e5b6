package commands

import (
	"github.com/spf13/cobra"

	"github.com/davidem/ecsfleet/cmd/ecsfleet/handlers"
)

// Up returns the up command.
//
// Up converges the fleet toward the configured running count: nodes that
// are already running or booting are left alone, stopped nodes are powered
// on, and only the remaining shortfall is created. It never deletes or
// powers off anything.
func Up() *cobra.Command {
	var (
		configPath string
		count      int
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Bring the fleet up to the desired running count",
		Long: `Up converges the fleet toward the desired number of running nodes.

Existing running or booting nodes count toward the target. Stopped nodes
are powered on before any new node is created, so a fleet that was stopped
resumes instead of growing. Up never deletes or powers off a node.

With --wait, up blocks until every node passes the readiness gate: the
provider reports it running, it answers a TCP probe, and its SSH service
accepts a connection.

Example:
  ecsfleet up -c fleet.yaml --wait`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, count, wait, verbosity(cmd))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to fleet configuration file (required)")
	cmd.Flags().IntVar(&count, "count", -1, "Override the configured node count")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for all nodes to pass readiness probes")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
