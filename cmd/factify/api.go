package main

import (
	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Factify server via HTTP.

These commands require a running server (factify serve).
Use --server to specify a custom server URL.

Examples:
  factify api health                  # Check server health
  factify api analyze invoice.pdf     # Analyze a document
  factify api documents               # List analyzed documents
  factify api actions <id>            # Actions for a document
  factify api usage                   # Token usage and cost`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.AnalyzeEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListDocumentsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.GetDocumentEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.DocumentActionsEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.UsageEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.TypesEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.SwaggerUIEndpoint{}).Command(getServerURL))

	rootCmd.AddCommand(apiCmd)
}
