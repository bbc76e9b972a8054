package types

// Priority is the urgency of a suggested action.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Action is a follow-up task suggested from a document's metadata. Actions are
// derived on demand, never stored independently.
type Action struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Deadline    *string  `json:"deadline,omitempty"`
	Priority    Priority `json:"priority"`
}
