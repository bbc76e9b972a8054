// Package classify predicts a document's type from its page text using the
// model's next-token log-likelihoods rather than its generated text: the
// prompt constrains the reply to a single label token, and the top-candidate
// list for that one position is renormalized into a probability distribution
// over the known labels.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/types"
)

const (
	// topLogProbs is the candidate-list size requested per token position.
	topLogProbs = 10

	defaultMaxPages       = 10
	defaultMaxPromptChars = 5500
)

// Config holds classifier tuning knobs.
type Config struct {
	// Model overrides the client's default model when set.
	Model string
	// MaxPages caps how many pages feed the prompt (0 = default of 10,
	// negative = unlimited).
	MaxPages int
	// MaxPromptChars hard-cuts the sample text (0 = default of 5500,
	// negative = unlimited). The cut is not word-boundary aware; that is a
	// deliberate simplicity/cost tradeoff, not a correctness feature.
	MaxPromptChars int
	// Logger is optional.
	Logger *slog.Logger
}

// Classifier assigns one of the known labels to a document.
type Classifier struct {
	client         providers.LLMClient
	model          string
	maxPages       int
	maxPromptChars int
	labels         []types.DocType
	promptPrefix   string
	promptSuffix   string
	logger         *slog.Logger
}

// New creates a Classifier over the fixed label set.
func New(client providers.LLMClient, cfg Config) *Classifier {
	if cfg.MaxPages == 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.MaxPromptChars == 0 {
		cfg.MaxPromptChars = defaultMaxPromptChars
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	labels := types.AllDocTypes()

	var lines []string
	var names []string
	for _, l := range labels {
		lines = append(lines, fmt.Sprintf("- %s: %s", l, l.Description()))
		names = append(names, string(l))
	}

	prefix := "You are a document classification system. Your task is to classify a business document " +
		"into one of the following types:\n\n" +
		strings.Join(lines, "\n") +
		"\n\nDocument content:\n"
	suffix := fmt.Sprintf("\n\nRespond with only one of the following labels: %s.", strings.Join(names, ", "))

	return &Classifier{
		client:         client,
		model:          cfg.Model,
		maxPages:       cfg.MaxPages,
		maxPromptChars: cfg.MaxPromptChars,
		labels:         labels,
		promptPrefix:   prefix,
		promptSuffix:   suffix,
		logger:         cfg.Logger,
	}
}

// BuildPrompt assembles the classification prompt for the given pages,
// applying the page and character caps.
func (c *Classifier) BuildPrompt(pages []types.Page) string {
	if c.maxPages > 0 && len(pages) > c.maxPages {
		pages = pages[:c.maxPages]
	}

	texts := make([]string, 0, len(pages))
	for _, p := range pages {
		texts = append(texts, p.Text)
	}
	sample := strings.Join(texts, "\n\n")
	if c.maxPromptChars > 0 && len(sample) > c.maxPromptChars {
		sample = sample[:c.maxPromptChars]
	}

	return c.promptPrefix + sample + c.promptSuffix
}

// Classify returns the most likely label and its confidence, along with the
// token usage of the underlying model call.
//
// Failure modes: *UnexpectedResponseError when the response has no token
// candidate structure, *FormatError when no candidate matches a known label.
// Transport errors pass through unmodified.
func (c *Classifier) Classify(ctx context.Context, pages []types.Page) (types.ClassificationResult, types.TokenUsage, error) {
	var usage types.TokenUsage

	result, err := c.client.Chat(ctx, &providers.ChatRequest{
		Messages:    []providers.Message{{Role: "user", Content: c.BuildPrompt(pages)}},
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   1,
		Logprobs:    true,
		TopLogprobs: topLogProbs,
	})
	if err != nil {
		return types.ClassificationResult{}, usage, err
	}

	usage.InputTokens = result.PromptTokens
	usage.OutputTokens = result.CompletionTokens

	if len(result.Candidates) == 0 {
		return types.ClassificationResult{}, usage, &UnexpectedResponseError{Content: result.Content}
	}

	// A label can appear among the candidates both with and without
	// surrounding whitespace; keep the likelier variant.
	known := make(map[types.DocType]struct{}, len(c.labels))
	for _, l := range c.labels {
		known[l] = struct{}{}
	}
	labelLogProbs := make(map[types.DocType]float64)
	var rawTokens []string
	for _, cand := range result.Candidates {
		rawTokens = append(rawTokens, cand.Token)
		label := types.DocType(strings.TrimSpace(cand.Token))
		if _, ok := known[label]; !ok {
			continue
		}
		if existing, ok := labelLogProbs[label]; !ok || cand.LogProb > existing {
			labelLogProbs[label] = cand.LogProb
		}
	}
	if len(labelLogProbs) == 0 {
		return types.ClassificationResult{}, usage, &FormatError{Candidates: rawTokens}
	}

	probs := softmaxFromLogProbs(labelLogProbs)

	// Tie-break: first label reaching the maximum in label-set order.
	var top types.DocType
	best := math.Inf(-1)
	for _, l := range c.labels {
		if p, ok := probs[l]; ok && p > best {
			top = l
			best = p
		}
	}

	if len(labelLogProbs) < len(c.labels) {
		c.logger.Debug("classification distribution computed over truncated label set",
			"labels_present", len(labelLogProbs),
			"label_set_size", len(c.labels))
	}

	return types.ClassificationResult{
		Type:            top,
		Confidence:      best,
		CandidateLabels: len(labelLogProbs),
	}, usage, nil
}

// softmaxFromLogProbs converts label log-likelihoods into a probability
// distribution. The max log-likelihood is subtracted before exponentiating
// to avoid overflow.
func softmaxFromLogProbs(logProbs map[types.DocType]float64) map[types.DocType]float64 {
	maxLP := math.Inf(-1)
	for _, lp := range logProbs {
		if lp > maxLP {
			maxLP = lp
		}
	}

	var sum float64
	exps := make(map[types.DocType]float64, len(logProbs))
	for label, lp := range logProbs {
		e := math.Exp(lp - maxLP)
		exps[label] = e
		sum += e
	}

	probs := make(map[types.DocType]float64, len(exps))
	for label, e := range exps {
		probs[label] = e / sum
	}
	return probs
}
