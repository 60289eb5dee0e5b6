package reconcile

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NodeState is a node's last observation, attached to timeout errors so
// callers can see which node stalled and why.
type NodeState struct {
	Name       string
	Status     Status
	Native     string
	ProbeError string // last failed probe, empty if provider status was the blocker
}

func (n NodeState) String() string {
	s := fmt.Sprintf("%s=%s(%s)", n.Name, n.Status, n.Native)
	if n.ProbeError != "" {
		s += " probe: " + n.ProbeError
	}
	return s
}

// TimeoutError reports that the fleet did not converge to the desired
// state within the deadline.
type TimeoutError struct {
	Desired Status
	Timeout time.Duration
	Nodes   []NodeState
}

func (e *TimeoutError) Error() string {
	states := make([]string, len(e.Nodes))
	for i, n := range e.Nodes {
		states[i] = n.String()
	}
	return fmt.Sprintf("fleet did not reach state %q within %s: [%s]",
		e.Desired, e.Timeout, strings.Join(states, ", "))
}

// IsTimeout reports whether err is a convergence timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
