// Package types provides shared types used across multiple packages.
// This package has no dependencies on other factify packages to avoid import cycles.
package types

import "fmt"

// DocType is one of the fixed document-type categories.
type DocType string

const (
	// DocTypeInvoice is a bill for goods or services.
	DocTypeInvoice DocType = "Invoice"
	// DocTypeContract is a legal agreement between parties.
	DocTypeContract DocType = "Contract"
	// DocTypeEarnings is a financial or business report.
	DocTypeEarnings DocType = "Earnings"
	// DocTypeOther is any document that does not fit the above categories.
	DocTypeOther DocType = "Other"
)

// AllDocTypes returns the supported document types in label-set order.
// The order is significant: classification tie-breaks resolve to the first
// label reaching the maximum probability in this order.
func AllDocTypes() []DocType {
	return []DocType{DocTypeInvoice, DocTypeContract, DocTypeEarnings, DocTypeOther}
}

// ParseDocType converts a string to a DocType. "Report" is accepted as an
// alias for Earnings; the alias is folded here so downstream dispatch only
// ever sees the four canonical cases.
func ParseDocType(s string) (DocType, error) {
	switch s {
	case "Invoice":
		return DocTypeInvoice, nil
	case "Contract":
		return DocTypeContract, nil
	case "Earnings", "Report":
		return DocTypeEarnings, nil
	case "Other":
		return DocTypeOther, nil
	default:
		return "", fmt.Errorf("unknown document type: %q", s)
	}
}

// Description returns the human-readable description used to prompt the model.
func (d DocType) Description() string {
	switch d {
	case DocTypeInvoice:
		return "A bill for goods or services, typically including vendor, amount, due date, and line items."
	case DocTypeContract:
		return "A legal agreement between parties, containing terms, dates, and responsibilities."
	case DocTypeEarnings:
		return "A financial or business report summarizing revenue, profits, expenses, and other key metrics."
	case DocTypeOther:
		return "Any other type of document that does not fit the above categories."
	default:
		return ""
	}
}

// Page is one page of extracted document text. Number is 1-based. Text is the
// empty string (never absent) when a page yields no extractable text.
type Page struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}

// ClassificationResult is the outcome of classifying a document.
type ClassificationResult struct {
	// Type is the predicted document type.
	Type DocType `json:"type"`
	// Confidence is the softmax-normalized likelihood mass assigned to Type
	// among the known labels that appeared in the model's top candidates.
	Confidence float64 `json:"confidence"`
	// CandidateLabels is the number of known labels the distribution was
	// computed over. A value below the full label-set size means the model's
	// candidate list omitted some labels and the confidence was renormalized
	// over a truncated set.
	CandidateLabels int `json:"candidate_labels,omitempty"`
}
