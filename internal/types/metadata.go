package types

// Metadata is the type-specific structured extraction result. Exactly one
// concrete record exists per DocType. Fields are pointers (or nil slices)
// because extraction may find nothing; absence must stay distinguishable
// from a present-but-empty value.
type Metadata interface {
	DocType() DocType
}

// LineItem is a single invoice line.
type LineItem struct {
	Description *string  `json:"description,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// InvoiceMetadata holds fields extracted from an invoice.
type InvoiceMetadata struct {
	Vendor    *string    `json:"vendor,omitempty"`
	Amount    *float64   `json:"amount,omitempty"`
	DueDate   *string    `json:"due_date,omitempty"`
	LineItems []LineItem `json:"line_items,omitempty"`
}

func (InvoiceMetadata) DocType() DocType { return DocTypeInvoice }

// ContractMetadata holds fields extracted from a contract.
type ContractMetadata struct {
	Parties         []string `json:"parties,omitempty"`
	EffectiveDate   *string  `json:"effective_date,omitempty"`
	TerminationDate *string  `json:"termination_date,omitempty"`
	KeyTerms        []string `json:"key_terms,omitempty"`
}

func (ContractMetadata) DocType() DocType { return DocTypeContract }

// KeyMetric is a named metric from an earnings report. Value stays a free-form
// string to support values like "$1.2B", "15%", or "N/A".
type KeyMetric struct {
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
}

// ReportMetadata holds fields extracted from an earnings report.
type ReportMetadata struct {
	ReportingPeriod  *string     `json:"reporting_period,omitempty"`
	KeyMetrics       []KeyMetric `json:"key_metrics,omitempty"`
	ExecutiveSummary *string     `json:"executive_summary,omitempty"`
}

func (ReportMetadata) DocType() DocType { return DocTypeEarnings }

// OtherMetadata holds the summary extracted from an uncategorized document.
type OtherMetadata struct {
	Summary *string `json:"summary,omitempty"`
}

func (OtherMetadata) DocType() DocType { return DocTypeOther }

// DocumentEntry is one analyzed document: classification plus extracted
// metadata under an opaque unique identifier. Entries are created once per
// successful pipeline run and immutable thereafter.
type DocumentEntry struct {
	ID             string               `json:"id"`
	Classification ClassificationResult `json:"classification"`
	Metadata       Metadata             `json:"metadata"`
}
