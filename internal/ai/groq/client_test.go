package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestClientGenerateContent(t *testing.T) {
	var got completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" {\"gaps\":[]} "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client, err := New(Options{APIKey: "secret", Endpoint: server.URL}, zap.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	out, err := client.GenerateContent(context.Background(), "system prompt", "user payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"gaps":[]}` {
		t.Fatalf("unexpected content %q", out)
	}

	if got.Model != DefaultModel || got.Temperature != DefaultTemperature {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user payload" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		expect string
	}{
		{name: "http status", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, expect: "status 401"},
		{name: "invalid json", status: http.StatusOK, body: `not json`, expect: "not valid json"},
		{name: "no content", status: http.StatusOK, body: `{"choices":[]}`, expect: "no content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := New(Options{APIKey: "k", Endpoint: server.URL}, nil)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}

			_, err = client.GenerateContent(context.Background(), "s", "m")
			if err == nil || !strings.Contains(err.Error(), tt.expect) {
				t.Fatalf("expected error containing %q, got %v", tt.expect, err)
			}
		})
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Options{APIKey: "  "}, nil); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
