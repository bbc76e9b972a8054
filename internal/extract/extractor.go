// Package extract turns a document's page text into one of the four typed
// metadata records. Each extractor variant pairs a type-specific prompt with
// a JSON schema; the model's free-text reply is parsed, validated against the
// schema, and decoded into the typed record. A response that cannot satisfy
// the schema's structural constraints fails as a whole; it is never coerced
// into a partially-guessed record.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/types"
)

const maxOutputTokens = 1000

// Config holds extractor tuning knobs.
type Config struct {
	// Model overrides the client's default model when set.
	Model string
	// MaxPages caps how many pages feed the prompt (0 = unlimited; extraction
	// is deliberately more permissive than classification since full content
	// usually improves fidelity).
	MaxPages int
	// MaxChars hard-cuts the content (0 = unlimited).
	MaxChars int
	// Logger is optional.
	Logger *slog.Logger
}

// Extractor extracts the metadata record for one document type.
type Extractor struct {
	docType    types.DocType
	client     providers.LLMClient
	model      string
	maxPages   int
	maxChars   int
	userPrompt string
	schema     *jsonschema.Schema
	logger     *slog.Logger
}

// New creates an Extractor for the given document type. Fails with
// *UnsupportedTypeError when the type has no registered prompt/schema pair.
func New(docType types.DocType, client providers.LLMClient, cfg Config) (*Extractor, error) {
	prompt, ok := promptFor(docType)
	if !ok {
		return nil, &UnsupportedTypeError{Type: string(docType)}
	}
	schemaMap, ok := schemaFor(docType)
	if !ok {
		return nil, &UnsupportedTypeError{Type: string(docType)}
	}

	schemaJSON, err := marshalSchema(schemaMap)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load %s schema: %w", docType, err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", docType, err)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Extractor{
		docType:    docType,
		client:     client,
		model:      cfg.Model,
		maxPages:   cfg.MaxPages,
		maxChars:   cfg.MaxChars,
		userPrompt: prompt + "\n\n" + formatInstructions(schemaJSON),
		schema:     schema,
		logger:     cfg.Logger,
	}, nil
}

// DocType returns the document type this extractor serves.
func (e *Extractor) DocType() types.DocType { return e.docType }

// BuildContent concatenates page texts in order, applying the page and
// character caps.
func (e *Extractor) BuildContent(pages []types.Page) string {
	if e.maxPages > 0 && len(pages) > e.maxPages {
		pages = pages[:e.maxPages]
	}
	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	content := strings.Join(texts, "\n\n")
	if e.maxChars > 0 && len(content) > e.maxChars {
		content = content[:e.maxChars]
	}
	return content
}

// Extract returns the validated metadata record for the document, along with
// the token usage of the underlying model call.
//
// Failure mode: *ParseError when the response cannot be parsed into the
// expected schema. Transport errors pass through unmodified.
func (e *Extractor) Extract(ctx context.Context, pages []types.Page) (types.Metadata, types.TokenUsage, error) {
	var usage types.TokenUsage

	result, err := e.client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: e.userPrompt + "\n\nDocument content:\n" + e.BuildContent(pages)},
		},
		Model:       e.model,
		Temperature: 0,
		MaxTokens:   maxOutputTokens,
	})
	if err != nil {
		return nil, usage, err
	}

	usage.InputTokens = result.PromptTokens
	usage.OutputTokens = result.CompletionTokens

	record, err := e.parse(result.Content)
	if err != nil {
		return nil, usage, err
	}
	return record, usage, nil
}

// parse validates raw model output against the schema and decodes it into the
// typed record for this extractor's document type.
func (e *Extractor) parse(raw string) (types.Metadata, error) {
	parsed, err := parseResponseJSON(raw)
	if err != nil {
		return nil, &ParseError{DocType: string(e.docType), Raw: raw, Err: err}
	}

	var doc any
	if err := json.Unmarshal(parsed, &doc); err != nil {
		return nil, &ParseError{DocType: string(e.docType), Raw: raw, Err: err}
	}
	if err := e.schema.Validate(doc); err != nil {
		return nil, &ParseError{DocType: string(e.docType), Raw: raw, Err: err}
	}

	decode := func(v types.Metadata) (types.Metadata, error) {
		if err := json.Unmarshal(parsed, v); err != nil {
			return nil, &ParseError{DocType: string(e.docType), Raw: raw, Err: err}
		}
		return v, nil
	}

	switch e.docType {
	case types.DocTypeInvoice:
		return decode(&types.InvoiceMetadata{})
	case types.DocTypeContract:
		return decode(&types.ContractMetadata{})
	case types.DocTypeEarnings:
		return decode(&types.ReportMetadata{})
	case types.DocTypeOther:
		return decode(&types.OtherMetadata{})
	default:
		return nil, &UnsupportedTypeError{Type: string(e.docType)}
	}
}
