package classify

import (
	"fmt"
	"strings"
)

// FormatError reports that the model responded but none of its candidate
// tokens matched a known label. This is a transient response-format failure:
// the orchestrator retries it.
type FormatError struct {
	// Candidates are the raw token texts the model offered.
	Candidates []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("no known label among model candidates [%s]", strings.Join(e.Candidates, ", "))
}

// UnexpectedResponseError reports a response that lacks the expected
// per-token candidate structure. Not retried: the model or request
// configuration is wrong, not the individual response.
type UnexpectedResponseError struct {
	// Content is the generated text, kept for diagnosis.
	Content string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("model response missing token candidate structure (content: %q)", e.Content)
}
