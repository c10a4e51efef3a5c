package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type capturedChat struct {
	path, auth string
	body       struct {
		Model          string `json:"model"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}
}

func newOpenRouterServer(t *testing.T, got *capturedChat) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got.body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "gen-test",
			"model": got.body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"words":["lucid"]}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewOpenRouterProvider_SendsJSONModeWithModelAsIs(t *testing.T) {
	var got capturedChat
	server := newOpenRouterServer(t, &got)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "anthropic/claude-3-haiku",
		BaseURL: server.URL + "/api/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("model = %q, want %q", p.ModelID(), "anthropic/claude-3-haiku")
	}

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "Suggest one word."}},
		JSONMode: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.path != "/api/v1/chat/completions" {
		t.Errorf("path = %q, want /api/v1/chat/completions", got.path)
	}
	if got.auth != "Bearer sk-or-test" {
		t.Errorf("authorization = %q", got.auth)
	}
	if got.body.Model != "anthropic/claude-3-haiku" {
		t.Errorf("request model = %q", got.body.Model)
	}
	if got.body.ResponseFormat == nil || got.body.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", got.body.ResponseFormat)
	}
	if resp.Model != "anthropic/claude-3-haiku" || resp.Usage.TotalTokens != 17 {
		t.Errorf("response = %+v", resp)
	}
}

func TestNewOpenRouterProvider_FriendlyNamesAreNotResolved(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-mini" {
		t.Errorf("model = %q, want the configured id unchanged", p.ModelID())
	}
}

func TestNewOpenRouterProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-001"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
