// Package trade submits orders to the trade execution service.
package trade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds one order submission.
const DefaultTimeout = 10 * time.Second

// ActionBuy is the only action the watcher submits.
const ActionBuy = "buy"

// Executor posts orders to the execution venue. Orders carry a
// deterministic idempotency key so a resubmitted order cannot double
// execute on the venue side; there are no client-side retries.
type Executor struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// Option configures Executor.
type Option func(*Executor)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		e.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		e.client = client
	}
}

// NewExecutor creates a trade executor client.
func NewExecutor(endpoint, apiKey string, opts ...Option) *Executor {
	e := &Executor{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type orderRequest struct {
	TokenAddress string `json:"token_address"`
	Action       string `json:"action"`
}

// Execute submits one order. orderID rides the Idempotency-Key header.
// A non-2xx response is an error.
func (e *Executor) Execute(ctx context.Context, orderID, address, action string) error {
	payload, err := json.Marshal(orderRequest{TokenAddress: address, Action: action})
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", orderID)
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("submit order: unexpected status %d", resp.StatusCode)
	}
	return nil
}
