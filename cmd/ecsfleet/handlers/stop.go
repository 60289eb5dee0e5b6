package handlers

import "context"

// Stop powers off every running node and waits for the fleet to settle in
// the stopped state.
func Stop(ctx context.Context, configPath string, verbosity int) error {
	d, err := buildDeps(configPath, verbosity, false)
	if err != nil {
		return err
	}
	return d.reconciler.Stop(ctx)
}
