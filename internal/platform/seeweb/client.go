package seeweb

import (
	"context"
	"time"
)

// Server is an ECS virtual machine as reported by the provider.
// Name is assigned by the provider at creation time and is stable for the
// server's lifetime. Notes carries the free-text annotation used for fleet
// membership. IPv4 is empty until the provider assigns an address.
type Server struct {
	Name     string `json:"name"`
	Notes    string `json:"notes"`
	Status   string `json:"status"`
	IPv4     string `json:"ipv4"`
	Plan     string `json:"plan"`
	Location string `json:"location"`
	Image    string `json:"image"`
}

// Action is an in-flight asynchronous provider operation.
type Action struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Action status vocabulary. The provider reports several spellings of
// success depending on the underlying HTTP operation.
const (
	ActionStatusPending    = "pending"
	ActionStatusInProgress = "in_progress"
	ActionStatusCompleted  = "completed"
	ActionStatusOK         = "ok"
	ActionStatusNoContent  = "no_content"
	ActionStatusError      = "error"
)

// Done reports whether the action reached a successful terminal status.
func (a Action) Done() bool {
	switch a.Status {
	case ActionStatusCompleted, ActionStatusOK, ActionStatusNoContent:
		return true
	}
	return false
}

// Failed reports whether the provider marked the action as failed.
func (a Action) Failed() bool {
	return a.Status == ActionStatusError
}

// CreateServerRequest holds the full payload for creating a server.
// All fields are opaque pass-through values; validation is the provider's
// concern.
type CreateServerRequest struct {
	Plan     string `json:"plan"`
	Image    string `json:"image"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
	SSHKey   string `json:"ssh_key,omitempty"`
	GPU      string `json:"gpu,omitempty"`
	GPULabel string `json:"gpu_label,omitempty"`
}

// ServerLister lists all servers visible to the account, unfiltered.
type ServerLister interface {
	ListServers(ctx context.Context) ([]Server, error)
}

// ServerCreator creates servers. The returned action ID must be watched
// before the new server's status can be trusted.
type ServerCreator interface {
	CreateServer(ctx context.Context, req CreateServerRequest) (int64, error)
}

// ServerPower turns servers on and off. Both transitions are asynchronous;
// progress is visible through the server's status field.
type ServerPower interface {
	TurnOnServer(ctx context.Context, name string) error
	TurnOffServer(ctx context.Context, name string) error
}

// ServerDeleter deletes servers. Deletion is provider-authoritative: a
// successful response means the server is gone or going away.
type ServerDeleter interface {
	DeleteServer(ctx context.Context, name string) error
}

// ActionWatcher fetches and polls asynchronous provider actions.
type ActionWatcher interface {
	FetchAction(ctx context.Context, id int64) (Action, error)
	// WatchAction polls the action every interval until it reaches a
	// terminal status or maxPolls attempts have been made. A failed
	// action is returned as an error; it is never retried here.
	WatchAction(ctx context.Context, id int64, maxPolls int, interval time.Duration) error
}

// API combines everything the reconciler needs from the provider.
type API interface {
	ServerLister
	ServerCreator
	ServerPower
	ServerDeleter
	ActionWatcher
}
