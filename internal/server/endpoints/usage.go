package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/api"
	"github.com/factify-ai/factify/internal/pipeline"
	"github.com/factify-ai/factify/internal/svcctx"
)

// UsageResponse reports accumulated token totals and the derived cost.
type UsageResponse struct {
	InputTokens   int     `json:"input_tokens"`
	OutputTokens  int     `json:"output_tokens"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// UsageEndpoint handles GET /api/usage.
type UsageEndpoint struct{}

func (e *UsageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/usage", e.handler
}

func (e *UsageEndpoint) RequiresPipeline() bool { return true }

// handler godoc
//
//	@Summary		Token usage and estimated cost
//	@Description	Accumulated oracle token totals across all pipeline calls since startup
//	@Tags			usage
//	@Produce		json
//	@Success		200	{object}	UsageResponse
//	@Router			/api/usage [get]
func (e *UsageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	pipe := svcctx.PipelineFrom(r.Context())

	inputRate := pipeline.DefaultInputCostPerM
	outputRate := pipeline.DefaultOutputCostPerM
	if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
		pricing := cm.Get().Pricing
		inputRate = pricing.InputCostPerMillion
		outputRate = pricing.OutputCostPerMillion
	}

	usage := pipe.Usage()
	writeJSON(w, http.StatusOK, UsageResponse{
		InputTokens:   usage.InputTokens,
		OutputTokens:  usage.OutputTokens,
		EstimatedCost: pipe.EstimatedCost(inputRate, outputRate),
	})
}

func (e *UsageEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show token usage and estimated cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())
			var resp UsageResponse
			if err := client.Get(ctx, "/api/usage", &resp); err != nil {
				return err
			}
			fmt.Printf("Input tokens:   %d\n", resp.InputTokens)
			fmt.Printf("Output tokens:  %d\n", resp.OutputTokens)
			fmt.Printf("Estimated cost: $%.4f\n", resp.EstimatedCost)
			return nil
		},
	}
}
