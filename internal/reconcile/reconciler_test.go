package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidem/ecsfleet/internal/config"
	"github.com/davidem/ecsfleet/internal/platform/seeweb"
)

// fakeProber scripts probe outcomes per address.
type fakeProber struct {
	mu           sync.Mutex
	reachableErr map[string]error
	sshErr       map[string]error
}

func (f *fakeProber) Reachable(_ context.Context, addr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reachableErr[addr]
}

func (f *fakeProber) SSHReady(_ context.Context, addr string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sshErr[addr]
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		PollInterval:    time.Millisecond,
		ConvergeTimeout: 250 * time.Millisecond,
		SettlingDelay:   10 * time.Millisecond,
		ActionMaxPolls:  3,
		ActionInterval:  time.Millisecond,
		ListAttempts:    1,
	}
}

func newTestReconciler(api seeweb.API, prober *fakeProber) *Reconciler {
	if prober == nil {
		prober = &fakeProber{}
	}
	return New(api, prober, "my-fleet", testTimeouts(), nil, logr.Discard())
}

func fixedList(servers ...seeweb.Server) func(context.Context) ([]seeweb.Server, error) {
	return func(context.Context) ([]seeweb.Server, error) {
		return servers, nil
	}
}

var testSpec = config.NodeSpec{Plan: "eCS4", Image: "ubuntu-2204", Location: "it-mi2", SSHKey: "fleet-key"}

func TestConverge_EmptyFleetCreatesExactly(t *testing.T) {
	creates := 0
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(),
		CreateServerFunc: func(_ context.Context, req seeweb.CreateServerRequest) (int64, error) {
			creates++
			assert.Equal(t, "my-fleet", req.Notes)
			assert.Equal(t, "eCS4", req.Plan)
			return int64(creates), nil
		},
	}

	report, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 2, Node: testSpec})
	require.NoError(t, err)
	assert.Equal(t, 2, creates)
	assert.Equal(t, 2, report.Created)
	assert.Empty(t, report.PoweredOn)
}

func TestConverge_PrefersPowerOnOverCreate(t *testing.T) {
	var poweredOn []string
	creates := 0
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(
			seeweb.Server{Name: "run1", Notes: "my-fleet", Status: "Booted"},
			seeweb.Server{Name: "off1", Notes: "my-fleet", Status: "Off"},
		),
		TurnOnServerFunc: func(_ context.Context, name string) error {
			poweredOn = append(poweredOn, name)
			return nil
		},
		CreateServerFunc: func(context.Context, seeweb.CreateServerRequest) (int64, error) {
			creates++
			return 1, nil
		},
	}

	report, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 2, Node: testSpec})
	require.NoError(t, err)
	assert.Equal(t, []string{"off1"}, poweredOn)
	assert.Equal(t, 0, creates, "stopped nodes cover the shortfall; no creates allowed")
	assert.Equal(t, []string{"off1"}, report.PoweredOn)
}

func TestConverge_TargetAlreadyMet(t *testing.T) {
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(
			seeweb.Server{Name: "a", Notes: "my-fleet", Status: "Booted"},
			seeweb.Server{Name: "b", Notes: "my-fleet", Status: "Booting"},
			seeweb.Server{Name: "c", Notes: "my-fleet", Status: "Off"},
		),
		TurnOnServerFunc: func(_ context.Context, name string) error {
			t.Errorf("unexpected power-on of %s", name)
			return nil
		},
		CreateServerFunc: func(context.Context, seeweb.CreateServerRequest) (int64, error) {
			t.Error("unexpected create")
			return 1, nil
		},
	}

	report, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 2, Node: testSpec})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Empty(t, report.PoweredOn)
}

func TestConverge_MixedPowerOnAndCreate(t *testing.T) {
	var poweredOn []string
	creates := 0
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(
			seeweb.Server{Name: "off1", Notes: "my-fleet", Status: "Off"},
			seeweb.Server{Name: "off2", Notes: "my-fleet", Status: "Stopped"},
		),
		TurnOnServerFunc: func(_ context.Context, name string) error {
			poweredOn = append(poweredOn, name)
			return nil
		},
		CreateServerFunc: func(context.Context, seeweb.CreateServerRequest) (int64, error) {
			creates++
			return 1, nil
		},
	}

	_, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 3, Node: testSpec})
	require.NoError(t, err)
	assert.Len(t, poweredOn, 2)
	assert.Equal(t, 1, creates)
}

func TestConverge_IgnoresForeignNodes(t *testing.T) {
	creates := 0
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(
			seeweb.Server{Name: "other", Notes: "another-fleet", Status: "Booted"},
		),
		CreateServerFunc: func(context.Context, seeweb.CreateServerRequest) (int64, error) {
			creates++
			return 1, nil
		},
	}

	_, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 1, Node: testSpec})
	require.NoError(t, err)
	assert.Equal(t, 1, creates)
}

func TestConverge_FailedActionIsHardFailureWithoutRetry(t *testing.T) {
	creates := 0
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(),
		CreateServerFunc: func(context.Context, seeweb.CreateServerRequest) (int64, error) {
			creates++
			return 9, nil
		},
		WatchActionFunc: func(_ context.Context, id int64, _ int, _ time.Duration) error {
			return &seeweb.ActionFailedError{ActionID: id, Status: "error"}
		},
	}

	report, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 1, Node: testSpec})
	require.Error(t, err)
	assert.True(t, seeweb.IsActionFailed(err))
	assert.Equal(t, 1, creates, "a failed unit must not be retried as a new create")
	assert.Equal(t, 0, report.Created)
}

func TestConverge_GPUSpecPassedThrough(t *testing.T) {
	var got seeweb.CreateServerRequest
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(),
		CreateServerFunc: func(_ context.Context, req seeweb.CreateServerRequest) (int64, error) {
			got = req
			return 1, nil
		},
	}

	spec := testSpec
	spec.GPU = &config.GPU{Name: "A6000", Count: 2}
	_, err := newTestReconciler(api, nil).Converge(context.Background(), Target{Count: 1, Node: spec})
	require.NoError(t, err)
	assert.Equal(t, "2", got.GPU)
	assert.Equal(t, "A6000", got.GPULabel)
}

func TestStop_PowersOffOnlyActiveNodes(t *testing.T) {
	var poweredOff []string
	calls := 0
	api := &seeweb.MockClient{
		ListServersFunc: func(context.Context) ([]seeweb.Server, error) {
			calls++
			if calls == 1 {
				return []seeweb.Server{
					{Name: "run1", Notes: "my-fleet", Status: "Booted"},
					{Name: "boot1", Notes: "my-fleet", Status: "Booting"},
					{Name: "off1", Notes: "my-fleet", Status: "Off"},
				}, nil
			}
			// Subsequent polls observe the fleet fully stopped.
			return []seeweb.Server{
				{Name: "run1", Notes: "my-fleet", Status: "Off"},
				{Name: "boot1", Notes: "my-fleet", Status: "Off"},
				{Name: "off1", Notes: "my-fleet", Status: "Off"},
			}, nil
		},
		TurnOffServerFunc: func(_ context.Context, name string) error {
			poweredOff = append(poweredOff, name)
			return nil
		},
	}

	err := newTestReconciler(api, nil).Stop(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"run1", "boot1"}, poweredOff)
}

func TestTerminate_DeletesAllRegardlessOfStatus(t *testing.T) {
	var deleted []string
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(
			seeweb.Server{Name: "a", Notes: "my-fleet", Status: "Booted"},
			seeweb.Server{Name: "b", Notes: "my-fleet", Status: "Off"},
			seeweb.Server{Name: "c", Notes: "my-fleet", Status: "SomethingWeird"},
			seeweb.Server{Name: "keep", Notes: "other-fleet", Status: "Booted"},
		),
		DeleteServerFunc: func(_ context.Context, name string) error {
			deleted = append(deleted, name)
			return nil
		},
	}

	require.NoError(t, newTestReconciler(api, nil).Terminate(context.Background()))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, deleted)
}

func TestStatus_SurfacesCanonicalStatuses(t *testing.T) {
	api := &seeweb.MockClient{
		ListServersFunc: fixedList(
			seeweb.Server{Name: "a", Notes: "my-fleet", Status: "Booted"},
			seeweb.Server{Name: "b", Notes: "my-fleet", Status: "Booting"},
			seeweb.Server{Name: "c", Notes: "my-fleet", Status: "Off"},
			seeweb.Server{Name: "d", Notes: "my-fleet", Status: "Exploded"},
		),
	}

	statuses, err := newTestReconciler(api, nil).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]Status{
		"a": StatusRunning,
		"b": StatusInitializing,
		"c": StatusStopped,
		"d": StatusUnknown,
	}, statuses)
}

func TestListOwned_RetriesTransientFailures(t *testing.T) {
	calls := 0
	api := &seeweb.MockClient{
		ListServersFunc: func(context.Context) ([]seeweb.Server, error) {
			calls++
			if calls == 1 {
				return nil, &seeweb.TransportError{Err: context.DeadlineExceeded}
			}
			return []seeweb.Server{{Name: "a", Notes: "my-fleet", Status: "Booted"}}, nil
		},
	}

	r := New(api, &fakeProber{}, "my-fleet", &config.Timeouts{
		PollInterval: time.Millisecond,
		ListAttempts: 3,
	}, nil, logr.Discard())

	owned, err := r.listOwned(context.Background())
	require.NoError(t, err)
	assert.Len(t, owned, 1)
	assert.Equal(t, 2, calls)
}
