// Package notify delivers operator messages to a webhook endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds one webhook delivery.
const DefaultTimeout = 10 * time.Second

// Webhook posts free-text messages to a notification endpoint.
// Delivery failures are returned to the caller, who decides whether
// they matter; nothing is retried.
type Webhook struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// Option configures Webhook.
type Option func(*Webhook)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(w *Webhook) {
		w.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Webhook) {
		w.client = client
	}
}

// NewWebhook creates a webhook notifier.
func NewWebhook(endpoint, apiKey string, opts ...Option) *Webhook {
	w := &Webhook{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type notifyRequest struct {
	Text string `json:"text"`
}

// Send posts the message. A non-2xx response is an error.
func (w *Webhook) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(notifyRequest{Text: message})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send notification: unexpected status %d", resp.StatusCode)
	}
	return nil
}
