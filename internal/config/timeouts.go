package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds every timing knob of the reconciler. Values can be
// overridden via environment variables so stuck fleets can be debugged
// without a rebuild.
type Timeouts struct {
	PollInterval     time.Duration // Delay between provider status polls
	ConvergeTimeout  time.Duration // Hard deadline for AwaitState
	SettlingDelay    time.Duration // Final delay after all probes pass
	ProbeDialTimeout time.Duration // Per-attempt TCP reachability deadline
	ProbeSSHTimeout  time.Duration // Per-attempt SSH readiness deadline
	ActionMaxPolls   int           // Poll budget for watching one action
	ActionInterval   time.Duration // Delay between action polls
	ListAttempts     int           // Retry budget for transient list failures
}

// LoadTimeouts loads timeout configuration from environment variables,
// falling back to defaults for unset or unparsable values.
//
// Environment Variables:
//   - ECSFLEET_POLL_INTERVAL (default: 5s)
//   - ECSFLEET_CONVERGE_TIMEOUT (default: 10m)
//   - ECSFLEET_SETTLING_DELAY (default: 15s)
//   - ECSFLEET_PROBE_DIAL_TIMEOUT (default: 5s)
//   - ECSFLEET_PROBE_SSH_TIMEOUT (default: 10s)
//   - ECSFLEET_ACTION_MAX_POLLS (default: 180)
//   - ECSFLEET_ACTION_INTERVAL (default: 5s)
//   - ECSFLEET_LIST_ATTEMPTS (default: 3)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:     parseDuration("ECSFLEET_POLL_INTERVAL", 5*time.Second),
		ConvergeTimeout:  parseDuration("ECSFLEET_CONVERGE_TIMEOUT", 10*time.Minute),
		SettlingDelay:    parseDuration("ECSFLEET_SETTLING_DELAY", 15*time.Second),
		ProbeDialTimeout: parseDuration("ECSFLEET_PROBE_DIAL_TIMEOUT", 5*time.Second),
		ProbeSSHTimeout:  parseDuration("ECSFLEET_PROBE_SSH_TIMEOUT", 10*time.Second),
		ActionMaxPolls:   parseInt("ECSFLEET_ACTION_MAX_POLLS", 180),
		ActionInterval:   parseDuration("ECSFLEET_ACTION_INTERVAL", 5*time.Second),
		ListAttempts:     parseInt("ECSFLEET_LIST_ATTEMPTS", 3),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
