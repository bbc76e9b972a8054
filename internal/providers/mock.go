package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	Err          error // Returned from every call when set
	ResponseText string
	Candidates   []TokenCandidate // Returned when the request asks for logprobs

	// Responses, when non-empty, is consumed one element per call and takes
	// precedence over ResponseText/Candidates/Err.
	Responses []MockResponse

	// Token usage reported on every successful call
	PromptTokens     int
	CompletionTokens int

	// State
	requestCount atomic.Int64

	mu       sync.Mutex
	requests []*ChatRequest
}

// MockResponse is one scripted reply.
type MockResponse struct {
	Content    string
	Candidates []TokenCandidate
	Err        error
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText:     "mock response",
		PromptTokens:     100,
		CompletionTokens: 1,
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string { return MockClientName }

// RequestCount returns the number of Chat calls made.
func (c *MockClient) RequestCount() int {
	return int(c.requestCount.Load())
}

// Requests returns a copy of all captured requests, in call order.
func (c *MockClient) Requests() []*ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ChatRequest, len(c.requests))
	copy(out, c.requests)
	return out
}

// LastRequest returns the most recent captured request, or nil.
func (c *MockClient) LastRequest() *ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return nil
	}
	return c.requests[len(c.requests)-1]
}

// Chat records the request and returns the configured response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	content := c.ResponseText
	candidates := c.Candidates
	err := c.Err
	if len(c.Responses) > 0 {
		idx := int(count) - 1
		if idx >= len(c.Responses) {
			idx = len(c.Responses) - 1
		}
		scripted := c.Responses[idx]
		content = scripted.Content
		candidates = scripted.Candidates
		err = scripted.Err
	}
	if err != nil {
		return nil, err
	}

	result := &ChatResult{
		Content:          content,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		TotalTokens:      c.PromptTokens + c.CompletionTokens,
		Provider:         MockClientName,
		ModelUsed:        req.Model,
		RequestID:        fmt.Sprintf("mock-%d", count),
		ExecutionTime:    time.Since(start),
	}
	if req.Logprobs {
		result.Candidates = candidates
	}
	return result, nil
}
