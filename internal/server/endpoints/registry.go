package endpoints

import (
	"github.com/factify-ai/factify/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},

		// Document endpoints
		&AnalyzeEndpoint{},
		&ListDocumentsEndpoint{},
		&GetDocumentEndpoint{},
		&DocumentActionsEndpoint{},

		// Usage and type endpoints
		&UsageEndpoint{},
		&TypesEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}
