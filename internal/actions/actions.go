// Package actions derives suggested follow-up tasks from a document's
// extracted metadata. Derivation is pure rule evaluation dispatched over the
// document type; actions are regenerated on demand, never stored.
package actions

import (
	"fmt"
	"strings"

	"github.com/factify-ai/factify/internal/types"
)

// Derive returns the ordered action list for a document. An unknown type (or
// metadata that does not match the claimed type) falls back to the Other
// rule set.
func Derive(docType types.DocType, metadata types.Metadata) []types.Action {
	switch docType {
	case types.DocTypeInvoice:
		if m, ok := metadata.(*types.InvoiceMetadata); ok {
			return forInvoice(m)
		}
	case types.DocTypeContract:
		if m, ok := metadata.(*types.ContractMetadata); ok {
			return forContract(m)
		}
	case types.DocTypeEarnings:
		return forEarnings()
	case types.DocTypeOther:
		return forOther()
	}
	return forOther()
}

// Filter returns the actions whose priority exactly matches the given string.
// Matching is case-sensitive; relative order is preserved. An empty priority
// returns the input unchanged.
func Filter(all []types.Action, priority string) []types.Action {
	if priority == "" {
		return all
	}
	var out []types.Action
	for _, a := range all {
		if string(a.Priority) == priority {
			out = append(out, a)
		}
	}
	return out
}

func forInvoice(m *types.InvoiceMetadata) []types.Action {
	vendor := "unknown vendor"
	if m.Vendor != nil {
		vendor = *m.Vendor
	}

	actions := []types.Action{{
		Type:        "talk_to_finance_team",
		Description: fmt.Sprintf("Discuss invoice from %s with finance team.", vendor),
		Deadline:    m.DueDate,
		Priority:    types.PriorityMedium,
	}}

	if m.DueDate != nil && *m.DueDate != "" {
		amount := "the amount due"
		if m.Amount != nil {
			amount = fmt.Sprintf("%v", *m.Amount)
		}
		actions = append(actions, types.Action{
			Type:        "payment_due",
			Description: fmt.Sprintf("Schedule payment of %s to %s.", amount, vendor),
			Deadline:    m.DueDate,
			Priority:    types.PriorityHigh,
		})
	}
	return actions
}

func forContract(m *types.ContractMetadata) []types.Action {
	parties := strings.Join(m.Parties, ", ")

	actions := []types.Action{{
		Type:        "print_contract",
		Description: fmt.Sprintf("Print contract with %s.", parties),
		Priority:    types.PriorityLow,
	}}

	if m.TerminationDate != nil && *m.TerminationDate != "" {
		actions = append(actions,
			types.Action{
				Type:        "review_contract",
				Description: fmt.Sprintf("Review contract before termination with %s.", parties),
				Deadline:    m.TerminationDate,
				Priority:    types.PriorityMedium,
			},
			types.Action{
				Type:        "sign_contract",
				Description: fmt.Sprintf("Sign contract with %s.", parties),
				Deadline:    m.TerminationDate,
				Priority:    types.PriorityHigh,
			},
		)
	}
	return actions
}

func forEarnings() []types.Action {
	return []types.Action{
		{
			Type:        "review_report",
			Description: "Summarize or discuss report with stakeholders.",
			Priority:    types.PriorityLow,
		},
		{
			Type:        "prepare_presentation",
			Description: "Prepare a presentation based on the earnings report.",
			Priority:    types.PriorityLow,
		},
	}
}

func forOther() []types.Action {
	return []types.Action{{
		Type:        "human_review",
		Description: "Review document for important information or actions. No specific metadata available.",
		Priority:    types.PriorityLow,
	}}
}
