package handlers

import "context"

// Down deletes every node owned by the fleet.
func Down(ctx context.Context, configPath string, verbosity int) error {
	d, err := buildDeps(configPath, verbosity, false)
	if err != nil {
		return err
	}
	return d.reconciler.Terminate(ctx)
}
