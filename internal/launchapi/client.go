// Package launchapi is a small client for the lighthouse launcher's REST
// API, which manages validator keystores on a running node.
package launchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// requestTimeout bounds every call; the launcher either answers quickly or
// not at all.
const requestTimeout = 10 * time.Second

// ValidatorRequest is the payload the launcher's /validator endpoint expects.
// The keystore travels as raw JSON so it is forwarded without being decoded
// into a struct and re-encoded, which would drop unknown fields.
type ValidatorRequest struct {
	Name     string          `json:"name"`
	Keystore json.RawMessage `json:"keystore"`
}

// Result captures the launcher's reply regardless of outcome.
type Result struct {
	StatusCode int
	Body       string
}

// OK reports whether the launcher answered with a non-error status
// (anything below 400).
func (r Result) OK() bool { return r.StatusCode < 400 }

// Client talks to one lighthouse launcher instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the launcher at baseURL
// (scheme://host:port, with or without a trailing slash).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// CreateValidator uploads a keystore as a new validator.
func (c *Client) CreateValidator(ctx context.Context, name string, ks json.RawMessage) (Result, error) {
	return c.sendValidator(ctx, http.MethodPost, name, ks)
}

// UpdateValidator replaces the keystore of an existing validator.
func (c *Client) UpdateValidator(ctx context.Context, name string, ks json.RawMessage) (Result, error) {
	return c.sendValidator(ctx, http.MethodPut, name, ks)
}

func (c *Client) sendValidator(ctx context.Context, method, name string, ks json.RawMessage) (Result, error) {
	payload, err := json.Marshal(ValidatorRequest{Name: name, Keystore: ks})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/validator", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	return Result{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
