package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClient_Chat(t *testing.T) {
	t.Run("successful chat", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Method != "POST" {
				t.Errorf("unexpected method: %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}

			resp := map[string]any{
				"id":     "test-id",
				"object": "chat.completion",
				"model":  "gpt-4o-mini",
				"choices": []map[string]any{
					{
						"index": 0,
						"message": map[string]any{
							"role":    "assistant",
							"content": "Hello! How can I help you?",
						},
						"finish_reason": "stop",
					},
				},
				"usage": map[string]int{
					"prompt_tokens":     10,
					"completion_tokens": 8,
					"total_tokens":      18,
				},
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{
				{Role: "user", Content: "Hello"},
			},
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "Hello! How can I help you?" {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 18 {
			t.Errorf("TotalTokens = %d, want 18", result.TotalTokens)
		}
		if result.Provider != OpenAIName {
			t.Errorf("Provider = %q", result.Provider)
		}
	})

	t.Run("logprobs request surfaces candidates", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&received)

			resp := map[string]any{
				"id":     "test-id",
				"object": "chat.completion",
				"model":  "gpt-4o-mini",
				"choices": []map[string]any{
					{
						"index": 0,
						"message": map[string]any{
							"role":    "assistant",
							"content": "Invoice",
						},
						"logprobs": map[string]any{
							"content": []map[string]any{
								{
									"token":   "Invoice",
									"logprob": -0.02,
									"top_logprobs": []map[string]any{
										{"token": "Invoice", "logprob": -0.02},
										{"token": "Contract", "logprob": -4.1},
										{"token": " the", "logprob": -6.5},
									},
								},
							},
						},
						"finish_reason": "stop",
					},
				},
				"usage": map[string]int{
					"prompt_tokens":     120,
					"completion_tokens": 1,
					"total_tokens":      121,
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages:    []Message{{Role: "user", Content: "classify this"}},
			MaxTokens:   1,
			Logprobs:    true,
			TopLogprobs: 10,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}

		// Request must carry the logprob parameters.
		if received["logprobs"] != true {
			t.Errorf("request logprobs = %v, want true", received["logprobs"])
		}
		if top, ok := received["top_logprobs"].(float64); !ok || top != 10 {
			t.Errorf("request top_logprobs = %v, want 10", received["top_logprobs"])
		}
		if mt, ok := received["max_tokens"].(float64); !ok || mt != 1 {
			t.Errorf("request max_tokens = %v, want 1", received["max_tokens"])
		}

		if len(result.Candidates) != 3 {
			t.Fatalf("Candidates = %d, want 3", len(result.Candidates))
		}
		if result.Candidates[0].Token != "Invoice" || result.Candidates[0].LogProb != -0.02 {
			t.Errorf("first candidate = %+v", result.Candidates[0])
		}
	})

	t.Run("missing logprob structure yields no candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{
				"id":     "test-id",
				"object": "chat.completion",
				"model":  "gpt-4o-mini",
				"choices": []map[string]any{
					{
						"index": 0,
						"message": map[string]any{
							"role":    "assistant",
							"content": "Invoice",
						},
						"finish_reason": "stop",
					},
				},
				"usage": map[string]int{"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "classify this"}},
			Logprobs: true,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if len(result.Candidates) != 0 {
			t.Errorf("Candidates = %d, want 0", len(result.Candidates))
		}
	})

	t.Run("http error propagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := NewOpenAIClient(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err == nil {
			t.Fatal("expected error for 429 response")
		}
	})
}
