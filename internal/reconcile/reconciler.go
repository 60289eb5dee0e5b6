package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/davidem/ecsfleet/internal/config"
	"github.com/davidem/ecsfleet/internal/metrics"
	"github.com/davidem/ecsfleet/internal/platform/seeweb"
	"github.com/davidem/ecsfleet/internal/probe"
	"github.com/davidem/ecsfleet/internal/util/retry"
)

// Target is the requested fleet state for one Converge invocation.
type Target struct {
	// Count is the desired number of running nodes.
	Count int
	// Node is the spec applied to every node created to close a shortfall.
	Node config.NodeSpec
}

// Report summarises what a Converge invocation did.
type Report struct {
	// PoweredOn lists stopped nodes that were powered back on.
	PoweredOn []string
	// Created is the number of creation requests that were accepted and
	// whose actions completed. The provider assigns names asynchronously,
	// so new nodes are only identifiable on the next list.
	Created int
}

// Reconciler drives one fleet, identified by its tag, toward caller
// requested targets. All fleet membership is re-derived per call; nothing
// is cached across operations.
type Reconciler struct {
	api      seeweb.API
	prober   probe.Prober
	tag      string
	timeouts *config.Timeouts
	rec      metrics.Recorder
	log      logr.Logger
}

// New creates a Reconciler for the fleet identified by tag.
func New(api seeweb.API, prober probe.Prober, tag string, timeouts *config.Timeouts, rec metrics.Recorder, log logr.Logger) *Reconciler {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Reconciler{
		api:      api,
		prober:   prober,
		tag:      tag,
		timeouts: timeouts,
		rec:      rec,
		log:      log.WithName("reconcile").WithValues("fleet", tag),
	}
}

// Converge brings the number of running-or-initializing nodes up to
// target.Count, cheapest action first: nodes already up count as-is,
// stopped nodes are powered on, and only the remaining shortfall is
// created. Converge never deletes or powers off a node, and never creates
// surplus while stopped nodes can still cover the shortfall.
//
// Each creation is awaited through its provider action before the unit
// counts as provisioned. A failed action aborts the call; the unit is
// reported, not silently re-created, so repeated failures cannot leak an
// unbounded number of nodes.
func (r *Reconciler) Converge(ctx context.Context, target Target) (*Report, error) {
	start := time.Now()
	defer func() { r.rec.ConvergeDuration(time.Since(start)) }()

	owned, err := r.listOwned(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	active := 0
	var stopped []seeweb.Server
	for _, s := range owned {
		switch st := r.translate(s); st {
		case StatusRunning, StatusInitializing:
			active++
		case StatusStopped:
			stopped = append(stopped, s)
		}
	}

	r.log.Info("converging fleet", "target", target.Count, "active", active, "stopped", len(stopped))

	for _, s := range stopped {
		if active >= target.Count {
			break
		}
		if err := r.api.TurnOnServer(ctx, s.Name); err != nil {
			return report, fmt.Errorf("power on %s: %w", s.Name, err)
		}
		r.log.Info("powered on stopped node", "node", s.Name)
		r.rec.ServerPoweredOn()
		report.PoweredOn = append(report.PoweredOn, s.Name)
		active++
	}

	for active < target.Count {
		if err := r.createNode(ctx, target.Node); err != nil {
			return report, err
		}
		r.rec.ServerCreated()
		report.Created++
		active++
	}

	return report, nil
}

// createNode submits one creation request and waits for its action to
// reach a terminal status.
func (r *Reconciler) createNode(ctx context.Context, spec config.NodeSpec) error {
	req := seeweb.CreateServerRequest{
		Plan:     spec.Plan,
		Image:    spec.Image,
		Location: spec.Location,
		Notes:    r.tag,
		SSHKey:   spec.SSHKey,
	}
	if spec.GPU != nil {
		req.GPU = strconv.Itoa(spec.GPU.Count)
		req.GPULabel = spec.GPU.Name
	}

	actionID, err := r.api.CreateServer(ctx, req)
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}

	r.log.Info("node creation accepted, awaiting action", "action", actionID)
	if err := r.api.WatchAction(ctx, actionID, r.timeouts.ActionMaxPolls, r.timeouts.ActionInterval); err != nil {
		return fmt.Errorf("node creation did not complete: %w", err)
	}
	return nil
}

// Stop powers off every running or initializing node, then waits for the
// whole fleet to settle in the stopped state.
func (r *Reconciler) Stop(ctx context.Context) error {
	owned, err := r.listOwned(ctx)
	if err != nil {
		return err
	}

	for _, s := range owned {
		switch r.translate(s) {
		case StatusRunning, StatusInitializing:
			if err := r.api.TurnOffServer(ctx, s.Name); err != nil {
				return fmt.Errorf("power off %s: %w", s.Name, err)
			}
			r.log.Info("powered off node", "node", s.Name)
		}
	}

	return r.AwaitState(ctx, StatusStopped, r.timeouts.ConvergeTimeout)
}

// Terminate deletes every owned node regardless of status. Deletion is
// provider-authoritative: the API acknowledging the request is the end of
// the reconciler's responsibility, and a deleted node cannot be probed.
func (r *Reconciler) Terminate(ctx context.Context) error {
	owned, err := r.listOwned(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, s := range owned {
		r.log.Info("deleting node", "node", s.Name, "status", s.Status)
		if err := r.api.DeleteServer(ctx, s.Name); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Status returns the canonical status of every owned node, keyed by the
// provider-assigned name.
func (r *Reconciler) Status(ctx context.Context) (map[string]Status, error) {
	owned, err := r.listOwned(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]Status, len(owned))
	for _, s := range owned {
		statuses[s.Name] = r.translate(s)
	}
	return statuses, nil
}

// listOwned lists the account's servers and filters to this fleet,
// retrying transient provider failures within a small budget.
func (r *Reconciler) listOwned(ctx context.Context) ([]seeweb.Server, error) {
	var owned []seeweb.Server
	err := retry.Do(ctx, func() error {
		servers, err := r.api.ListServers(ctx)
		if err != nil {
			if seeweb.IsTransient(err) {
				return err
			}
			return retry.Permanent(err)
		}
		owned = OwnedBy(servers, r.tag)
		return nil
	},
		retry.WithAttempts(r.timeouts.ListAttempts),
		retry.WithInitialDelay(r.timeouts.PollInterval),
	)
	if err != nil {
		return nil, fmt.Errorf("list fleet nodes: %w", err)
	}
	return owned, nil
}

// translate maps a server's native status, logging statuses missing from
// the translation table instead of coercing them.
func (r *Reconciler) translate(s seeweb.Server) Status {
	st := Translate(s.Status)
	if st == StatusUnknown {
		r.log.Info("unmapped provider status, treating as unknown", "node", s.Name, "status", s.Status)
	}
	return st
}
