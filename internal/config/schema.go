package config

import (
	"net"
	"strconv"
)

// Config holds factify configuration.
// Stored at: config.yaml (working directory or ~/.factify)
type Config struct {
	OpenAI   OpenAICfg   `mapstructure:"openai" yaml:"openai"`
	Pipeline PipelineCfg `mapstructure:"pipeline" yaml:"pipeline"`
	Pricing  PricingCfg  `mapstructure:"pricing" yaml:"pricing"`
	Server   ServerCfg   `mapstructure:"server" yaml:"server"`
}

// OpenAICfg configures the OpenAI-compatible oracle endpoint.
type OpenAICfg struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	Model          string `mapstructure:"model" yaml:"model"`                     // Model name
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`               // Override endpoint (empty = api.openai.com)
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`         // Transport-level retries inside the SDK
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // Per-request HTTP timeout
}

// PipelineCfg bounds how much document text reaches the oracle.
type PipelineCfg struct {
	MaxPagesClassification int `mapstructure:"max_pages_classification" yaml:"max_pages_classification"` // Pages sent to the classifier (negative = unlimited)
	MaxPromptChars         int `mapstructure:"max_prompt_chars" yaml:"max_prompt_chars"`                 // Classification prompt cap in bytes (negative = unlimited)
	MaxPagesExtraction     int `mapstructure:"max_pages_extraction" yaml:"max_pages_extraction"`         // Pages sent to extractors (0 = unlimited)
}

// PricingCfg holds per-million-token rates for cost estimation.
type PricingCfg struct {
	InputCostPerMillion  float64 `mapstructure:"input_cost_per_million" yaml:"input_cost_per_million"`
	OutputCostPerMillion float64 `mapstructure:"output_cost_per_million" yaml:"output_cost_per_million"`
}

// ServerCfg configures the HTTP API server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAICfg{
			APIKey:         "${OPENAI_API_KEY}",
			Model:          "gpt-4o-mini",
			MaxRetries:     2,
			TimeoutSeconds: 120,
		},
		Pipeline: PipelineCfg{
			MaxPagesClassification: 10,
			MaxPromptChars:         5500,
			MaxPagesExtraction:     0,
		},
		Pricing: PricingCfg{
			InputCostPerMillion:  0.60,
			OutputCostPerMillion: 2.40,
		},
		Server: ServerCfg{
			Host: "localhost",
			Port: 8080,
		},
	}
}

// ListenAddr returns the host:port string for the HTTP server.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
