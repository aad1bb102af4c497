package trade

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExecutor_Execute(t *testing.T) {
	var gotAuth, gotIdempotencyKey string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		gotIdempotencyKey = r.Header.Get("Idempotency-Key")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	executor := NewExecutor(server.URL, "trade-key")

	err := executor.Execute(context.Background(), "order-abc", "token-addr-1", ActionBuy)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if gotAuth != "Bearer trade-key" {
		t.Errorf("Authorization header: got %q", gotAuth)
	}
	if gotIdempotencyKey != "order-abc" {
		t.Errorf("Idempotency-Key header: got %q", gotIdempotencyKey)
	}

	var req map[string]interface{}
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("Request body not JSON: %v", err)
	}
	if req["token_address"] != "token-addr-1" {
		t.Errorf("token_address field: got %v", req["token_address"])
	}
	if req["action"] != "buy" {
		t.Errorf("action field: got %v", req["action"])
	}
}

func TestExecutor_ExecuteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	executor := NewExecutor(server.URL, "key")

	if err := executor.Execute(context.Background(), "order-1", "token-addr-1", ActionBuy); err == nil {
		t.Error("Expected error for 502 response")
	}
}

func TestExecutor_ExecuteTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	executor := NewExecutor(server.URL, "key")

	if err := executor.Execute(context.Background(), "order-1", "token-addr-1", ActionBuy); err == nil {
		t.Error("Expected error for unreachable endpoint")
	}
}

func TestExecutor_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	executor := NewExecutor(server.URL, "key")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := executor.Execute(ctx, "order-1", "token-addr-1", ActionBuy); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
