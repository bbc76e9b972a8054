package providers

import (
	"context"
	"time"
)

// LLMClient is the boundary to the language-model oracle. The pipeline treats
// it as an opaque blocking call: transport-level retry, rate limiting and
// timeouts belong to the implementation, not to callers.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openai").
	Name() string
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// Logprobs requests per-token candidate log-likelihoods for the
	// generated tokens. TopLogprobs bounds the candidate list per position.
	Logprobs    bool `json:"logprobs,omitempty"`
	TopLogprobs int  `json:"top_logprobs,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// TokenCandidate is one alternative token with its log-likelihood.
type TokenCandidate struct {
	Token   string  `json:"token"`
	LogProb float64 `json:"logprob"`
}

// ChatResult is the complete response from an LLM call.
type ChatResult struct {
	// Response content
	Content string `json:"content"`

	// Candidates are the top-K alternatives for the first generated token
	// position. Populated only when the request asked for logprobs and the
	// provider returned the per-token candidate structure.
	Candidates []TokenCandidate `json:"candidates,omitempty"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Provider info
	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`

	// Request tracking
	RequestID     string        `json:"request_id"`
	ExecutionTime time.Duration `json:"execution_time"`
}
