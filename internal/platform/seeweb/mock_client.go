package seeweb

import (
	"context"
	"time"
)

// MockClient is a test double for the API interface. Each method delegates
// to the corresponding func field when set and otherwise returns a benign
// default, so tests only override what they assert on.
type MockClient struct {
	ListServersFunc   func(ctx context.Context) ([]Server, error)
	CreateServerFunc  func(ctx context.Context, req CreateServerRequest) (int64, error)
	DeleteServerFunc  func(ctx context.Context, name string) error
	TurnOnServerFunc  func(ctx context.Context, name string) error
	TurnOffServerFunc func(ctx context.Context, name string) error
	FetchActionFunc   func(ctx context.Context, id int64) (Action, error)
	WatchActionFunc   func(ctx context.Context, id int64, maxPolls int, interval time.Duration) error
}

var _ API = (*MockClient)(nil)

// ListServers delegates to ListServersFunc or returns no servers.
func (m *MockClient) ListServers(ctx context.Context) ([]Server, error) {
	if m.ListServersFunc != nil {
		return m.ListServersFunc(ctx)
	}
	return nil, nil
}

// CreateServer delegates to CreateServerFunc or returns action ID 1.
func (m *MockClient) CreateServer(ctx context.Context, req CreateServerRequest) (int64, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, req)
	}
	return 1, nil
}

// DeleteServer delegates to DeleteServerFunc or succeeds.
func (m *MockClient) DeleteServer(ctx context.Context, name string) error {
	if m.DeleteServerFunc != nil {
		return m.DeleteServerFunc(ctx, name)
	}
	return nil
}

// TurnOnServer delegates to TurnOnServerFunc or succeeds.
func (m *MockClient) TurnOnServer(ctx context.Context, name string) error {
	if m.TurnOnServerFunc != nil {
		return m.TurnOnServerFunc(ctx, name)
	}
	return nil
}

// TurnOffServer delegates to TurnOffServerFunc or succeeds.
func (m *MockClient) TurnOffServer(ctx context.Context, name string) error {
	if m.TurnOffServerFunc != nil {
		return m.TurnOffServerFunc(ctx, name)
	}
	return nil
}

// FetchAction delegates to FetchActionFunc or reports the action completed.
func (m *MockClient) FetchAction(ctx context.Context, id int64) (Action, error) {
	if m.FetchActionFunc != nil {
		return m.FetchActionFunc(ctx, id)
	}
	return Action{ID: id, Status: ActionStatusCompleted}, nil
}

// WatchAction delegates to WatchActionFunc or succeeds immediately.
func (m *MockClient) WatchAction(ctx context.Context, id int64, maxPolls int, interval time.Duration) error {
	if m.WatchActionFunc != nil {
		return m.WatchActionFunc(ctx, id, maxPolls, interval)
	}
	return nil
}
