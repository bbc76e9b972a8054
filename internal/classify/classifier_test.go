package classify

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/types"
)

func TestSoftmaxFromLogProbs(t *testing.T) {
	t.Run("distribution sums to one", func(t *testing.T) {
		probs := softmaxFromLogProbs(map[types.DocType]float64{
			types.DocTypeInvoice:  -0.1,
			types.DocTypeContract: -2.3,
			types.DocTypeEarnings: -5.0,
			types.DocTypeOther:    -9.8,
		})

		var sum float64
		for label, p := range probs {
			if p < 0 || p > 1 {
				t.Errorf("prob for %s = %v, want in [0,1]", label, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("sum = %v, want 1.0", sum)
		}
	})

	t.Run("invariant under constant shift", func(t *testing.T) {
		base := map[types.DocType]float64{
			types.DocTypeInvoice:  -0.5,
			types.DocTypeContract: -1.5,
		}
		shifted := map[types.DocType]float64{
			types.DocTypeInvoice:  -0.5 + 100,
			types.DocTypeContract: -1.5 + 100,
		}

		p1 := softmaxFromLogProbs(base)
		p2 := softmaxFromLogProbs(shifted)
		for label := range base {
			if math.Abs(p1[label]-p2[label]) > 1e-12 {
				t.Errorf("prob for %s changed under shift: %v vs %v", label, p1[label], p2[label])
			}
		}
	})

	t.Run("large magnitudes do not overflow", func(t *testing.T) {
		probs := softmaxFromLogProbs(map[types.DocType]float64{
			types.DocTypeInvoice:  1000,
			types.DocTypeContract: 998,
		})
		for label, p := range probs {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				t.Errorf("prob for %s = %v", label, p)
			}
		}
	})
}

func TestClassifier_Classify(t *testing.T) {
	t.Run("picks top label with confidence", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Candidates = []providers.TokenCandidate{
			{Token: "Invoice", LogProb: -0.05},
			{Token: "Contract", LogProb: -3.2},
			{Token: " the", LogProb: -5.0},
		}
		c := New(mock, Config{})

		result, usage, err := c.Classify(context.Background(), []types.Page{{Number: 1, Text: "INVOICE #42"}})
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if result.Type != types.DocTypeInvoice {
			t.Errorf("Type = %s, want Invoice", result.Type)
		}
		if result.Confidence <= 0.9 || result.Confidence >= 1.0 {
			t.Errorf("Confidence = %v, want in (0.9, 1.0)", result.Confidence)
		}
		if result.CandidateLabels != 2 {
			t.Errorf("CandidateLabels = %d, want 2", result.CandidateLabels)
		}
		if usage.InputTokens != mock.PromptTokens || usage.OutputTokens != mock.CompletionTokens {
			t.Errorf("usage = %+v", usage)
		}
	})

	t.Run("whitespace-padded tokens match labels", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Candidates = []providers.TokenCandidate{
			{Token: " Contract", LogProb: -0.1},
			{Token: "Contract", LogProb: -2.0},
		}
		c := New(mock, Config{})

		result, _, err := c.Classify(context.Background(), []types.Page{{Number: 1, Text: "agreement"}})
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if result.Type != types.DocTypeContract {
			t.Errorf("Type = %s, want Contract", result.Type)
		}
		// Both variants collapse onto one label.
		if result.CandidateLabels != 1 {
			t.Errorf("CandidateLabels = %d, want 1", result.CandidateLabels)
		}
	})

	t.Run("tie breaks to first label in set order", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Candidates = []providers.TokenCandidate{
			{Token: "Contract", LogProb: -1.0},
			{Token: "Invoice", LogProb: -1.0},
		}
		c := New(mock, Config{})

		result, _, err := c.Classify(context.Background(), []types.Page{{Number: 1, Text: "x"}})
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if result.Type != types.DocTypeInvoice {
			t.Errorf("Type = %s, want Invoice (first in label-set order)", result.Type)
		}
	})

	t.Run("no matching label fails with FormatError", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Candidates = []providers.TokenCandidate{
			{Token: "Receipt", LogProb: -0.3},
			{Token: "Memo", LogProb: -1.2},
		}
		c := New(mock, Config{})

		_, _, err := c.Classify(context.Background(), []types.Page{{Number: 1, Text: "x"}})
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("error = %v, want *FormatError", err)
		}
		if len(fe.Candidates) != 2 {
			t.Errorf("FormatError candidates = %v", fe.Candidates)
		}
	})

	t.Run("missing candidate structure fails with UnexpectedResponseError", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Candidates = nil
		mock.ResponseText = "Invoice"
		c := New(mock, Config{})

		_, _, err := c.Classify(context.Background(), []types.Page{{Number: 1, Text: "x"}})
		var ue *UnexpectedResponseError
		if !errors.As(err, &ue) {
			t.Fatalf("error = %v, want *UnexpectedResponseError", err)
		}
	})

	t.Run("transport error passes through", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Err = errors.New("connection refused")
		c := New(mock, Config{})

		_, _, err := c.Classify(context.Background(), []types.Page{{Number: 1, Text: "x"}})
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Fatalf("error = %v, want transport error", err)
		}
		var fe *FormatError
		if errors.As(err, &fe) {
			t.Error("transport error must not be a FormatError")
		}
	})
}

func TestClassifier_BuildPrompt(t *testing.T) {
	t.Run("page cap keeps first pages in order", func(t *testing.T) {
		var pages []types.Page
		for i := 1; i <= 15; i++ {
			pages = append(pages, types.Page{Number: i, Text: fmt.Sprintf("page-%d-text", i)})
		}
		c := New(providers.NewMockClient(), Config{MaxPages: 10, MaxPromptChars: -1})

		prompt := c.BuildPrompt(pages)
		for i := 1; i <= 10; i++ {
			if !strings.Contains(prompt, fmt.Sprintf("page-%d-text", i)) {
				t.Errorf("prompt missing page %d", i)
			}
		}
		for i := 11; i <= 15; i++ {
			if strings.Contains(prompt, fmt.Sprintf("page-%d-text", i)) {
				t.Errorf("prompt contains page %d beyond cap", i)
			}
		}
		if strings.Index(prompt, "page-1-text") > strings.Index(prompt, "page-2-text") {
			t.Error("pages out of order in prompt")
		}
	})

	t.Run("char cap is a byte-for-byte prefix", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 100) // 1000 chars
		c := New(providers.NewMockClient(), Config{MaxPromptChars: 137})

		prompt := c.BuildPrompt([]types.Page{{Number: 1, Text: text}})
		if !strings.Contains(prompt, text[:137]) {
			t.Error("prompt missing truncated sample prefix")
		}
		if strings.Contains(prompt, text[:138]) {
			t.Error("prompt contains sample beyond char cap")
		}
	})

	t.Run("prompt lists labels with descriptions", func(t *testing.T) {
		c := New(providers.NewMockClient(), Config{})
		prompt := c.BuildPrompt([]types.Page{{Number: 1, Text: "hello"}})

		for _, label := range types.AllDocTypes() {
			if !strings.Contains(prompt, fmt.Sprintf("- %s: %s", label, label.Description())) {
				t.Errorf("prompt missing description line for %s", label)
			}
		}
		if !strings.Contains(prompt, "Respond with only one of the following labels: Invoice, Contract, Earnings, Other.") {
			t.Error("prompt missing label instruction")
		}
	})
}
