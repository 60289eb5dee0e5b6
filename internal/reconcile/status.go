package reconcile

// Status is the reconciler's canonical view of a node, decoupled from the
// provider's status vocabulary. It is derived on every observation and
// never stored.
type Status int

const (
	// StatusUnknown covers any native status absent from the translation
	// table. Unknown never satisfies a wait: it means "state not yet
	// confirmed", not success or failure.
	StatusUnknown Status = iota
	// StatusInitializing covers boot and power transitions.
	StatusInitializing
	// StatusRunning means the provider reports the node as up. Network
	// usability is gated separately by the readiness probes.
	StatusRunning
	// StatusStopped means the node exists but is powered off.
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusRunning:
		return "running"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// statusTable maps every native status the provider is documented to emit.
// Matching is exact and case-sensitive. Transitional states map to
// Initializing even when colloquially "up": a booting node is not usable.
// PoweringOff is a transition, not a settled Stopped.
var statusTable = map[string]Status{
	"Booted":      StatusRunning,
	"Running":     StatusRunning,
	"Booting":     StatusInitializing,
	"PoweringOn":  StatusInitializing,
	"PoweringOff": StatusInitializing,
	"Off":         StatusStopped,
	"Stopped":     StatusStopped,
}

// Translate maps a provider-native status string to its canonical Status.
// Unmapped statuses return StatusUnknown; callers log those rather than
// coercing them to a terminal state.
func Translate(native string) Status {
	if s, ok := statusTable[native]; ok {
		return s
	}
	return StatusUnknown
}
