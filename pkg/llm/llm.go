// Package llm provides the provider-neutral types for generative text
// completion. Provider adapters (Gemini, OpenAI-compatible) live in
// internal/llm/{provider}/ and implement these interfaces.
package llm

import "context"

// Provider is the core interface implemented by every completion provider.
// A call is a single-turn generation: one prompt in, one completion out.
type Provider interface {
	// Generate creates a completion from a single prompt.
	// Use CallOption values to override model, temperature or token budget.
	Generate(ctx context.Context, prompt string, opts ...CallOption) (*Response, error)
}

// HealthReporter is optionally implemented by providers that can report
// connection health and model availability. Detected via type assertion.
type HealthReporter interface {
	// Heartbeat checks whether the provider is reachable with the configured credential.
	Heartbeat(ctx context.Context) error

	// ListModels returns the names of models available from this provider.
	ListModels(ctx context.Context) ([]string, error)
}

// CallOption configures a single Generate call.
type CallOption func(*CallConfig)

// CallConfig holds the resolved configuration for a single call.
// Users interact through CallOption functions, not this struct directly.
type CallConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// WithModel sets the model to use for this call, overriding the provider default.
func WithModel(model string) CallOption {
	return func(c *CallConfig) { c.Model = model }
}

// WithTemperature sets the sampling temperature.
// 0.0 = deterministic, 1.0+ = creative.
func WithTemperature(temp float64) CallOption {
	return func(c *CallConfig) { c.Temperature = temp }
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(max int) CallOption {
	return func(c *CallConfig) { c.MaxTokens = max }
}

// ApplyOptions creates a CallConfig from a list of options, starting from defaults.
func ApplyOptions(opts ...CallOption) CallConfig {
	cfg := CallConfig{
		Temperature: 0.7,
		MaxTokens:   512,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
