package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/factify-ai/factify/internal/config"
	"github.com/factify-ai/factify/internal/server"
	"github.com/factify-ai/factify/internal/server/endpoints"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Factify server",
	Long: `Start the Factify HTTP API server.

The server analyzes uploaded documents and keeps the results in memory
for the lifetime of the process.

The server provides:
  - POST /api/documents/analyze     - Analyze an uploaded document
  - GET  /api/documents             - List analyzed documents
  - GET  /api/documents/{id}        - Full analysis result
  - GET  /api/documents/{id}/actions - Derived actions (optional ?priority=)
  - GET  /api/usage                 - Token usage and estimated cost
  - GET  /api/types                 - Supported document types
  - GET  /health                    - Server health check

Examples:
  factify serve                    # Start on default port 8080
  factify serve --port 3000        # Start on custom port
  factify serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		host := serveHost
		port := servePort
		if !cmd.Flags().Changed("host") && cfgMgr.Get().Server.Host != "" {
			host = cfgMgr.Get().Server.Host
		}
		if !cmd.Flags().Changed("port") && cfgMgr.Get().Server.Port != 0 {
			port = cfgMgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   cfgMgr,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
