package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/actions"
	"github.com/factify-ai/factify/internal/config"
	"github.com/factify-ai/factify/internal/pipeline"
	"github.com/factify-ai/factify/internal/providers"
	"github.com/factify-ai/factify/internal/types"
)

var (
	analyzeOutputDir string
	analyzeModel     string
	analyzeForce     bool
)

// AnalysisResult is the per-document output record written to disk.
type AnalysisResult struct {
	File           string                     `json:"file"`
	Classification types.ClassificationResult `json:"classification"`
	Metadata       types.Metadata             `json:"metadata,omitempty"`
	Actions        []types.Action             `json:"actions,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file-or-dir>...",
	Short: "Analyze documents without a server",
	Long: `Analyze one or more documents directly, without a running server.

Each document is classified, its metadata extracted, and follow-up
actions derived. Results are written as JSON, one file per document,
plus a combined all_results.json.

Documents whose output file already exists are skipped unless --force
is given.

Examples:
  factify analyze invoice.pdf
  factify analyze ./inbox --out ./results
  factify analyze contract.pdf report.txt --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()

		oracleCfg := cfg.ToOpenAIConfig()
		if analyzeModel != "" {
			oracleCfg.Model = analyzeModel
		}
		client := providers.NewOpenAIClient(oracleCfg)

		pipe, err := pipeline.New(client, pipeline.Config{
			Model:                  oracleCfg.Model,
			MaxPagesClassification: cfg.Pipeline.MaxPagesClassification,
			MaxPromptChars:         cfg.Pipeline.MaxPromptChars,
			MaxPagesExtraction:     cfg.Pipeline.MaxPagesExtraction,
		})
		if err != nil {
			return err
		}

		files, err := collectDocuments(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no documents found in %s", strings.Join(args, ", "))
		}

		if err := os.MkdirAll(analyzeOutputDir, 0o755); err != nil {
			return err
		}

		var results []AnalysisResult
		for i, file := range files {
			fmt.Printf("[%d/%d] %s ... ", i+1, len(files), filepath.Base(file))

			outPath := filepath.Join(analyzeOutputDir, outputName(file))
			if !analyzeForce {
				if _, err := os.Stat(outPath); err == nil {
					color.Yellow("skipped (output exists)")
					continue
				}
			}

			result := analyzeOne(ctx, pipe, file)
			results = append(results, result)

			if result.Error != "" {
				color.Red("failed: %s", result.Error)
			} else {
				color.Green("%s (%.3f)", result.Classification.Type, result.Classification.Confidence)
			}

			if err := writeJSONFile(outPath, result); err != nil {
				return err
			}
		}

		if len(results) > 0 {
			if err := writeJSONFile(filepath.Join(analyzeOutputDir, "all_results.json"), results); err != nil {
				return err
			}
		}

		usage := pipe.Usage()
		cost := pipe.EstimatedCost(cfg.Pricing.InputCostPerMillion, cfg.Pricing.OutputCostPerMillion)
		bold := color.New(color.Bold)
		bold.Println("\nSummary")
		fmt.Printf("  Documents:      %d\n", len(results))
		fmt.Printf("  Input tokens:   %d\n", usage.InputTokens)
		fmt.Printf("  Output tokens:  %d\n", usage.OutputTokens)
		fmt.Printf("  Estimated cost: $%.4f\n", cost)
		return nil
	},
}

// analyzeOne runs the full pipeline for a single document. Failures are
// recorded on the result rather than aborting the batch.
func analyzeOne(ctx context.Context, pipe *pipeline.Manager, file string) AnalysisResult {
	result := AnalysisResult{File: file}

	pages, err := pipe.Load(file)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	classification, err := pipe.Classify(ctx, pages)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Classification = classification

	metadata, err := pipe.ExtractMetadata(ctx, pages, classification.Type)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Metadata = metadata
	result.Actions = actions.Derive(classification.Type, metadata)
	return result
}

// collectDocuments expands file and directory arguments into a flat list of
// analyzable documents.
func collectDocuments(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".pdf", ".txt", ".md":
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return files, nil
}

// outputName maps a document path to its result filename.
func outputName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "out", "results", "Output directory for result JSON files")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Override the configured model")
	analyzeCmd.Flags().BoolVar(&analyzeForce, "force", false, "Re-analyze documents with existing output")

	rootCmd.AddCommand(analyzeCmd)
}
