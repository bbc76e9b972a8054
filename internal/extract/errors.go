package extract

import "fmt"

// UnsupportedTypeError reports a document type with no registered extraction
// schema. Never retried: retrying cannot make a schema appear.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported document type: %q", e.Type)
}

// ParseError reports that the model's free-text response could not be parsed
// into the expected metadata schema. Retryable: a fresh completion may come
// back well-formed. Raw carries the offending model output for diagnosis.
type ParseError struct {
	DocType string
	Raw     string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s metadata: %v", e.DocType, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
