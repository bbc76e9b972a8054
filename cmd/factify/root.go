package main

import (
	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/api"
	"github.com/factify-ai/factify/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "factify",
	Short: "LLM-powered document classification and metadata extraction",
	Long: `Factify classifies business documents and extracts typed metadata
using an OpenAI-compatible model.

The pipeline includes:
  - Document type classification with calibrated confidence scores
  - Schema-validated metadata extraction per document type
  - Follow-up action derivation (payments, contract review, reporting)
  - Token usage and cost accounting`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.factify/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
