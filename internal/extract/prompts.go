package extract

import (
	"encoding/json"
	"fmt"

	"github.com/factify-ai/factify/internal/types"
)

// SystemPrompt constrains the model to information actually present in the
// text; it is shared by all extractor variants.
const SystemPrompt = "You extract structured metadata from business documents parsed as text from PDF. " +
	"Focus only on the information present in the text."

const invoicePrompt = `You are an intelligent data extractor for business invoices.

Extract the following fields:
- vendor: name of the vendor or company issuing the invoice
- amount: total amount in the invoice
- due_date: in YYYY-MM-DD format (e.g., 2024-03-25). Only include if explicitly mentioned and applicable.
- line_items: A list of items, each containing a description, quantity, and total amount of line item, if available. Include all items explicitly mentioned in the text, even if some fields are missing or have a value of 0 (e.g., amount, quantity).

Do not infer the actual values, just extract what is present in the text.`

const contractPrompt = `You are a document intelligence system focused on contracts.

Extract the following metadata:
- parties involved
- effective date: in YYYY-MM-DD format (e.g., 2024-03-25)
- termination date: in YYYY-MM-DD format (e.g., 2024-03-25)
- key terms (as a list of strings)`

const reportPrompt = `You are an AI system extracting key information from business earnings reports.

Extract the following fields:
- reporting period
- key metrics
- executive summary (a short paragraph)`

const otherPrompt = `You are an AI system summarizing general business documents that do not fit a specific category.

Extract the following fields:
- summary: a concise 3-5 sentence overview of the document`

// promptFor returns the type-specific extraction instructions.
func promptFor(docType types.DocType) (string, bool) {
	switch docType {
	case types.DocTypeInvoice:
		return invoicePrompt, true
	case types.DocTypeContract:
		return contractPrompt, true
	case types.DocTypeEarnings:
		return reportPrompt, true
	case types.DocTypeOther:
		return otherPrompt, true
	default:
		return "", false
	}
}

// formatInstructions renders the structured-output contract the model must
// follow, embedding the type's JSON schema.
func formatInstructions(schemaJSON []byte) string {
	return fmt.Sprintf("The output should be formatted as a JSON instance that conforms to the JSON schema below. "+
		"Return only the JSON object, with no surrounding text.\n\n"+
		"Here is the output schema:\n```\n%s\n```", schemaJSON)
}

// marshalSchema serializes a schema map deterministically for prompts.
func marshalSchema(schema map[string]any) ([]byte, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize schema: %w", err)
	}
	return b, nil
}
