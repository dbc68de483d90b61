package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mm15146-Mahad/summit/internal/model"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnavailable indicates no daemon answered at the address.
	ErrUnavailable = errors.New("daemon: not reachable")
	// ErrRejected indicates the daemon refused a transaction.
	ErrRejected = errors.New("daemon: transaction rejected")
)

// Client talks to a running daemon's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for addr, either host:port or a full URL.
func NewClient(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: addr,
		http:    &http.Client{},
	}
}

// Health returns nil when the daemon answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	body, err := c.do(ctx, http.MethodGet, "/v1/status", nil)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("daemon: parsing status: %w", err)
	}
	return st, nil
}

// State fetches the daemon's current financial state.
func (c *Client) State(ctx context.Context) (model.UserFinancialState, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/state", nil)
	if err != nil {
		return model.UserFinancialState{}, err
	}
	return decodeState(body)
}

// Apply submits a transaction to the daemon's tracker.
func (c *Client) Apply(ctx context.Context, req TransactionRequest) (model.UserFinancialState, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.UserFinancialState{}, fmt.Errorf("daemon: encoding transaction: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/v1/transactions", payload)
	if err != nil {
		return model.UserFinancialState{}, err
	}
	return decodeState(body)
}

func decodeState(body []byte) (model.UserFinancialState, error) {
	var st model.UserFinancialState
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("daemon: parsing state: %w", err)
	}
	return st, nil
}

// do performs a request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		return nil, fmt.Errorf("%w: %s", ErrRejected, e.Error)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
