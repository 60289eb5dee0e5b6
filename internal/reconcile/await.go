package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/davidem/ecsfleet/internal/platform/seeweb"
)

// AwaitState blocks until every owned node reaches the desired canonical
// state, or the timeout elapses. The timeout is a hard deadline measured
// from the call's start; partial progress does not reset it.
//
// For StatusRunning, a uniform provider-level "running" is necessary but
// not sufficient: each node must also pass a network reachability probe
// and an SSH readiness probe, and then hold both for the settling window.
// A node that regresses restarts only its own settling window; nodes that
// stayed stable keep theirs. For any other desired state only the provider
// status applies, since a stopped node is expected to be unreachable.
//
// On timeout the error enumerates every node with its last-seen status and
// probe failure.
func (r *Reconciler) AwaitState(ctx context.Context, desired Status, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	r.log.Info("awaiting fleet state", "desired", desired.String(), "timeout", timeout.String())

	// stableSince records when a node last began continuously passing both
	// probes. Entries are dropped the moment a node regresses.
	stableSince := make(map[string]time.Time)
	var lastSeen []NodeState

	for time.Now().Before(deadline) {
		owned, err := r.listOwned(ctx)
		if err != nil {
			return err
		}

		lastSeen = lastSeen[:0]
		settled := true

		for _, s := range owned {
			state := NodeState{Name: s.Name, Native: s.Status, Status: r.translate(s)}

			if state.Status != desired {
				settled = false
				delete(stableSince, s.Name)
				lastSeen = append(lastSeen, state)
				continue
			}

			if desired == StatusRunning {
				if probeErr := r.probeNode(ctx, s); probeErr != nil {
					state.ProbeError = probeErr.Error()
					settled = false
					delete(stableSince, s.Name)
					lastSeen = append(lastSeen, state)
					continue
				}
				if _, ok := stableSince[s.Name]; !ok {
					stableSince[s.Name] = time.Now()
					r.log.Info("node passed readiness probes, settling", "node", s.Name)
				}
				if time.Since(stableSince[s.Name]) < r.timeouts.SettlingDelay {
					settled = false
				}
			}

			lastSeen = append(lastSeen, state)
		}

		if settled && len(owned) > 0 {
			r.log.Info("fleet reached desired state", "desired", desired.String(), "nodes", len(owned))
			return nil
		}
		if settled && desired != StatusRunning {
			// An empty fleet is vacuously in any non-running state.
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("awaiting fleet state: %w", ctx.Err())
		case <-time.After(r.timeouts.PollInterval):
		}
	}

	return &TimeoutError{Desired: desired, Timeout: timeout, Nodes: append([]NodeState(nil), lastSeen...)}
}

// probeNode runs both liveness checks against a node's address. The
// provider flag alone is not trusted: a node reporting "running" may still
// be booting or rebooting shortly after first coming up.
func (r *Reconciler) probeNode(ctx context.Context, s seeweb.Server) error {
	if s.IPv4 == "" {
		return fmt.Errorf("no address assigned yet")
	}

	if err := r.prober.Reachable(ctx, s.IPv4); err != nil {
		r.log.V(1).Info("reachability probe failed", "node", s.Name, "addr", s.IPv4, "error", err.Error())
		r.rec.ProbeFailure("tcp")
		return fmt.Errorf("reachability: %w", err)
	}
	if err := r.prober.SSHReady(ctx, s.IPv4); err != nil {
		r.log.V(1).Info("ssh probe failed", "node", s.Name, "addr", s.IPv4, "error", err.Error())
		r.rec.ProbeFailure("ssh")
		return fmt.Errorf("ssh: %w", err)
	}
	return nil
}
