package trust

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one verdict provider call.
const DefaultTimeout = 10 * time.Second

// ErrUnavailable marks transport failures, non-2xx statuses and
// malformed provider responses. Callers must treat it as a rejection:
// a token whose trust cannot be confirmed is not trusted.
var ErrUnavailable = errors.New("verdict provider unavailable")

// ExtractFunc turns a provider response body into a Verdict. Returning
// an error marks the response malformed.
type ExtractFunc func(body []byte) (*Verdict, error)

// RemoteCheck posts a token address to a verdict provider and extracts
// a Verdict from the JSON response. One instance per provider; the
// extract function captures the provider's response shape.
type RemoteCheck struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
	extract  ExtractFunc
}

// RemoteOption configures RemoteCheck.
type RemoteOption func(*RemoteCheck)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) RemoteOption {
	return func(c *RemoteCheck) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(c *RemoteCheck) {
		c.client = client
	}
}

// NewRemoteCheck creates a verdict provider client.
func NewRemoteCheck(name, endpoint, apiKey string, extract ExtractFunc, opts ...RemoteOption) *RemoteCheck {
	c := &RemoteCheck{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultTimeout},
		extract:  extract,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name used in logs and verdicts.
func (c *RemoteCheck) Name() string {
	return c.name
}

type checkRequest struct {
	TokenAddress string `json:"token_address"`
}

// Check posts the token address and extracts the provider's verdict.
// Every failure mode maps to ErrUnavailable; there are no retries.
func (c *RemoteCheck) Check(ctx context.Context, address string) (*Verdict, error) {
	payload, err := json.Marshal(checkRequest{TokenAddress: address})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read response: %s", ErrUnavailable, c.name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrUnavailable, c.name, resp.StatusCode)
	}

	verdict, err := c.extract(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, c.name, err)
	}
	verdict.Check = c.name
	return verdict, nil
}
