package handlers

import (
	"context"

	"github.com/davidem/ecsfleet/internal/reconcile"
)

// Up converges the fleet to the desired running count. countOverride
// replaces the configured count when non-negative. When wait is set, Up
// blocks until every node passes the readiness gate.
func Up(ctx context.Context, configPath string, countOverride int, wait bool, verbosity int) error {
	d, err := buildDeps(configPath, verbosity, wait)
	if err != nil {
		return err
	}

	count := d.cfg.Count
	if countOverride >= 0 {
		count = countOverride
	}

	report, err := d.reconciler.Converge(ctx, reconcile.Target{Count: count, Node: d.cfg.Node})
	if err != nil {
		return err
	}
	d.log.Info("fleet converged", "poweredOn", len(report.PoweredOn), "created", report.Created)

	if !wait {
		return nil
	}
	return d.reconciler.AwaitState(ctx, reconcile.StatusRunning, d.timeouts.ConvergeTimeout)
}
