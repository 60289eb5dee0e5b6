// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing and flag binding. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the ecsfleet CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecsfleet",
		Short: "Manage fleets of Seeweb ECS servers",
	}

	cmd.PersistentFlags().IntP("verbosity", "v", 0, "Log verbosity (0 = info, 1 = debug)")

	cmd.AddCommand(Up())
	cmd.AddCommand(Stop())
	cmd.AddCommand(Down())
	cmd.AddCommand(Status())
	cmd.AddCommand(Version())

	return cmd
}

func verbosity(cmd *cobra.Command) int {
	v, err := cmd.Flags().GetInt("verbosity")
	if err != nil {
		return 0
	}
	return v
}
