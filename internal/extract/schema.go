package extract

import (
	"github.com/factify-ai/factify/internal/types"
)

// Schemas are JSON-Schema documents built as generic maps. Field optionality
// is expressed with nullable types rather than required lists: extraction may
// legitimately find nothing, and a null from the model decodes to an absent
// pointer field. Structural constraints (container shapes, member types, the
// per-item required names) stay strict so a malformed response fails the
// parse as a whole instead of being coerced.

func nullable(typ string) map[string]any {
	return map[string]any{"type": []string{typ, "null"}}
}

func nullableArray(items map[string]any) map[string]any {
	return map[string]any{
		"type":  []string{"array", "null"},
		"items": items,
	}
}

func invoiceSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vendor":   nullable("string"),
			"amount":   nullable("number"),
			"due_date": nullable("string"),
			"line_items": nullableArray(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"description": map[string]any{"type": "string"},
					"quantity":    nullable("number"),
					"amount":      nullable("number"),
				},
				"required": []string{"description"},
			}),
		},
	}
}

func contractSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"parties":          nullableArray(map[string]any{"type": "string"}),
			"effective_date":   nullable("string"),
			"termination_date": nullable("string"),
			"key_terms":        nullableArray(map[string]any{"type": "string"}),
		},
	}
}

func reportSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reporting_period": nullable("string"),
			"key_metrics": nullableArray(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
					// Value stays a string to support "$1.2B", "15%", "N/A".
					"value": nullable("string"),
				},
				"required": []string{"name"},
			}),
			"executive_summary": nullable("string"),
		},
	}
}

func otherSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": nullable("string"),
		},
	}
}

// schemaFor returns the JSON schema for a document type.
func schemaFor(docType types.DocType) (map[string]any, bool) {
	switch docType {
	case types.DocTypeInvoice:
		return invoiceSchema(), true
	case types.DocTypeContract:
		return contractSchema(), true
	case types.DocTypeEarnings:
		return reportSchema(), true
	case types.DocTypeOther:
		return otherSchema(), true
	default:
		return nil, false
	}
}
