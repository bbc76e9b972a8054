// Package pipeline coordinates document analysis: it owns the label set, one
// classifier and one extractor per document type, bounded retry on transient
// response-format failures, and process-scoped token/cost accounting.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/factify-ai/factify/internal/classify"
	"github.com/factify-ai/factify/internal/extract"
	"github.com/factify-ai/factify/internal/ingest"
	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/types"
)

const (
	// retryAttempts is the total attempt count for classify/extract calls.
	retryAttempts = 3
	// retryDelay is the fixed pause between attempts.
	retryDelay = 500 * time.Millisecond

	// Default per-million-token rates (USD, gpt-4o-mini).
	DefaultInputCostPerM  = 0.60
	DefaultOutputCostPerM = 2.40
)

// Config holds pipeline construction parameters.
type Config struct {
	// Model names the oracle model for both classification and extraction.
	Model string
	// MaxPagesClassification caps classifier input pages (0 = default 10).
	MaxPagesClassification int
	// MaxPromptChars caps the classification prompt in bytes (0 = default).
	MaxPromptChars int
	// MaxPagesExtraction caps extractor input pages (0 = unlimited).
	MaxPagesExtraction int
	// Loader loads documents from disk (defaults to the standard loader).
	Loader ingest.Loader
	// Logger is optional.
	Logger *slog.Logger
}

// Manager runs the classify → extract pipeline.
//
// The token accumulator is the only mutable state shared across concurrent
// pipeline invocations; it is mutex-guarded, so one Manager may serve
// concurrent requests.
type Manager struct {
	classifier *classify.Classifier
	extractors map[types.DocType]*extract.Extractor
	loader     ingest.Loader
	logger     *slog.Logger

	mu          sync.Mutex
	totalInput  int
	totalOutput int
}

// New creates a Manager with one extractor per supported document type.
func New(client providers.LLMClient, cfg Config) (*Manager, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Loader == nil {
		cfg.Loader = ingest.NewDocumentLoader()
	}

	classifier := classify.New(client, classify.Config{
		Model:          cfg.Model,
		MaxPages:       cfg.MaxPagesClassification,
		MaxPromptChars: cfg.MaxPromptChars,
		Logger:         cfg.Logger,
	})

	extractors := make(map[types.DocType]*extract.Extractor, len(types.AllDocTypes()))
	for _, docType := range types.AllDocTypes() {
		e, err := extract.New(docType, client, extract.Config{
			Model:    cfg.Model,
			MaxPages: cfg.MaxPagesExtraction,
			Logger:   cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		extractors[docType] = e
	}

	return &Manager{
		classifier: classifier,
		extractors: extractors,
		loader:     cfg.Loader,
		logger:     cfg.Logger,
	}, nil
}

// Load reads a document from disk into ordered page texts.
func (m *Manager) Load(path string) ([]types.Page, error) {
	return m.loader.Load(path)
}

// SupportedTypes returns the label set in order.
func (m *Manager) SupportedTypes() []types.DocType {
	return types.AllDocTypes()
}

// Classify predicts the document type, retrying transient response-format
// failures. Token usage from every attempt is accumulated.
func (m *Manager) Classify(ctx context.Context, pages []types.Page) (types.ClassificationResult, error) {
	var result types.ClassificationResult

	err := m.withRetry(ctx, func() error {
		r, usage, err := m.classifier.Classify(ctx, pages)
		m.addUsage(usage)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return types.ClassificationResult{}, err
	}

	m.logger.Info("classified document",
		"type", result.Type,
		"confidence", result.Confidence)
	return result, nil
}

// ExtractMetadata extracts the typed metadata record for docType, retrying
// transient parse failures. An unsupported type fails immediately with
// *extract.UnsupportedTypeError and no oracle call.
func (m *Manager) ExtractMetadata(ctx context.Context, pages []types.Page, docType types.DocType) (types.Metadata, error) {
	extractor, ok := m.extractors[docType]
	if !ok {
		return nil, &extract.UnsupportedTypeError{Type: string(docType)}
	}

	var record types.Metadata
	err := m.withRetry(ctx, func() error {
		r, usage, err := extractor.Extract(ctx, pages)
		m.addUsage(usage)
		if err != nil {
			return err
		}
		record = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("extracted metadata", "type", docType)
	return record, nil
}

// withRetry applies the pipeline's bounded retry policy: up to retryAttempts
// total attempts with a fixed delay, retrying only the component's own
// response-format failure kinds. Oracle-transport failures and
// unsupported-type failures propagate immediately; after exhaustion the last
// failure propagates unmodified in kind.
func (m *Manager) withRetry(ctx context.Context, op func() error) error {
	return retry.Do(
		op,
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
}

// isRetryable reports whether a failure is a transient response-format
// failure worth another oracle call.
func isRetryable(err error) bool {
	var formatErr *classify.FormatError
	var parseErr *extract.ParseError
	return errors.As(err, &formatErr) || errors.As(err, &parseErr)
}

// addUsage folds one component call's token counts into the running totals.
func (m *Manager) addUsage(usage types.TokenUsage) {
	m.mu.Lock()
	m.totalInput += usage.InputTokens
	m.totalOutput += usage.OutputTokens
	m.mu.Unlock()
}

// Usage returns the accumulated token totals.
func (m *Manager) Usage() types.TokenUsage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.TokenUsage{InputTokens: m.totalInput, OutputTokens: m.totalOutput}
}

// EstimatedCost derives the monetary estimate for the accumulated totals from
// per-million-token rates. Pure with respect to the accumulator: recomputable
// any number of times without side effects.
func (m *Manager) EstimatedCost(inputCostPerM, outputCostPerM float64) float64 {
	usage := m.Usage()
	return float64(usage.InputTokens)/1e6*inputCostPerM +
		float64(usage.OutputTokens)/1e6*outputCostPerM
}
