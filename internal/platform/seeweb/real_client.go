package seeweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

const defaultBaseURL = "https://api.seeweb.it/ecs/api/v2"

// RealClient talks to the Seeweb ECS API over HTTP.
type RealClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
	log        logr.Logger
}

// RealClientOption customises a RealClient.
type RealClientOption func(*RealClient)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(url string) RealClientOption {
	return func(c *RealClient) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) RealClientOption {
	return func(c *RealClient) { c.httpClient = hc }
}

// NewRealClient creates a client authenticated with the given API token.
func NewRealClient(token string, log logr.Logger, opts ...RealClientOption) *RealClient {
	c := &RealClient{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.WithName("seeweb"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ API = (*RealClient)(nil)

type serverListResponse struct {
	Servers []Server `json:"server"`
}

type createServerResponse struct {
	ActionID int64 `json:"action_id"`
}

type actionResponse struct {
	Action Action `json:"action"`
}

// ListServers returns every server visible to the account.
func (c *RealClient) ListServers(ctx context.Context) ([]Server, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/servers", nil)
	if err != nil {
		return nil, err
	}

	var resp serverListResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return resp.Servers, nil
}

// CreateServer submits a server creation request and returns the ID of the
// provider action tracking it.
func (c *RealClient) CreateServer(ctx context.Context, create CreateServerRequest) (int64, error) {
	body, err := json.Marshal(create)
	if err != nil {
		return 0, fmt.Errorf("encode create request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/servers", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	var resp createServerResponse
	if err := c.do(req, &resp); err != nil {
		return 0, fmt.Errorf("create server: %w", err)
	}

	c.log.Info("server creation accepted", "plan", create.Plan, "location", create.Location, "action", resp.ActionID)
	return resp.ActionID, nil
}

// DeleteServer deletes a server by name.
func (c *RealClient) DeleteServer(ctx context.Context, name string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/servers/"+name, nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("delete server %s: %w", name, err)
	}
	return nil
}

// TurnOnServer requests a power-on for the named server.
func (c *RealClient) TurnOnServer(ctx context.Context, name string) error {
	return c.power(ctx, name, "power_on")
}

// TurnOffServer requests a power-off for the named server.
func (c *RealClient) TurnOffServer(ctx context.Context, name string) error {
	return c.power(ctx, name, "power_off")
}

func (c *RealClient) power(ctx context.Context, name, action string) error {
	body, err := json.Marshal(map[string]string{"action": action})
	if err != nil {
		return fmt.Errorf("encode power request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/servers/"+name+"/power", bytes.NewReader(body))
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s server %s: %w", action, name, err)
	}

	c.log.V(1).Info("power request accepted", "server", name, "action", action)
	return nil
}

// FetchAction returns the current state of an asynchronous action.
func (c *RealClient) FetchAction(ctx context.Context, id int64) (Action, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/actions/%d", id), nil)
	if err != nil {
		return Action{}, err
	}

	var resp actionResponse
	if err := c.do(req, &resp); err != nil {
		return Action{}, fmt.Errorf("fetch action %d: %w", id, err)
	}
	return resp.Action, nil
}

// WatchAction polls the action until it reaches a terminal status.
//
// A transient fetch failure consumes a poll slot and the loop continues; an
// explicit error status from the provider aborts immediately and is never
// retried, since retrying the underlying operation could duplicate it.
func (c *RealClient) WatchAction(ctx context.Context, id int64, maxPolls int, interval time.Duration) error {
	var last Action
	for poll := 0; poll < maxPolls; poll++ {
		action, err := c.FetchAction(ctx, id)
		if err != nil {
			if !IsTransient(err) {
				return err
			}
			c.log.V(1).Info("transient error fetching action, will re-poll", "action", id, "error", err.Error())
		} else {
			last = action
			if action.Done() {
				return nil
			}
			if action.Failed() {
				return &ActionFailedError{ActionID: id, Status: action.Status}
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("watching action %d: %w", id, ctx.Err())
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("action %d not terminal after %d polls (last status %q)", id, maxPolls, last.Status)
}

func (c *RealClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-APITOKEN", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *RealClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}
