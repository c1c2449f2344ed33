package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cost-estimator/internal/llm"
)

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient(llm.Options{Model: "claude-3-5-sonnet-20241022"}); err == nil {
		t.Fatal("expected error without api key")
	}
	if _, err := NewClient(llm.Options{APIKey: "k"}); err == nil {
		t.Fatal("expected error without model")
	}
}

func TestCompleteReturnsFirstTextBlock(t *testing.T) {
	var payload map[string]any
	var apiKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		apiKey = r.Header.Get("X-Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
"content":[{"type":"text","text":"{\"tasks\":[]}"}],"stop_reason":"end_turn","stop_sequence":null,
"usage":{"input_tokens":12,"output_tokens":4}}`))
	}))
	defer server.Close()

	client, err := NewClient(llm.Options{APIKey: "secret", Model: "claude-3-5-sonnet-20241022", BaseURL: server.URL, MaxTokens: 4096})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	out, err := client.Complete(context.Background(), "estimate this")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"tasks":[]}` {
		t.Fatalf("out = %q", out)
	}
	if apiKey != "secret" {
		t.Fatalf("x-api-key = %q", apiKey)
	}
	if payload["model"] != "claude-3-5-sonnet-20241022" {
		t.Fatalf("model = %v", payload["model"])
	}
	if payload["max_tokens"] != float64(4096) {
		t.Fatalf("max_tokens = %v", payload["max_tokens"])
	}
	msgs, _ := payload["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", payload["messages"])
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "user" {
		t.Fatalf("role = %v", first["role"])
	}
	raw, _ := json.Marshal(first["content"])
	if !strings.Contains(string(raw), "estimate this") {
		t.Fatalf("content = %s", raw)
	}
}

func TestCompleteWithoutTextBlock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
"content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
	}))
	defer server.Close()

	client, err := NewClient(llm.Options{APIKey: "k", Model: "claude-3-5-sonnet-20241022", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Complete(context.Background(), "p")
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer server.Close()

	client, err := NewClient(llm.Options{APIKey: "k", Model: "claude-3-5-sonnet-20241022", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Complete(context.Background(), "p"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}
