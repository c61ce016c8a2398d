// Package llm wires a completion provider to the rest of the service: it
// selects the configured provider adapter and wraps it in a Client that
// enforces per-call timeouts, bounded retries and output cleanup.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/HerbHall/postreview/internal/llm/gemini"
	"github.com/HerbHall/postreview/internal/llm/openai"
	pkgllm "github.com/HerbHall/postreview/pkg/llm"
	"go.uber.org/zap"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds the completion client configuration with per-provider sub-configs.
type Config struct {
	Provider     string        `mapstructure:"provider" yaml:"provider"` // "gemini" (default) or "openai"
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`   // budget for one Complete call, retries included
	MaxRetries   int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" yaml:"retry_backoff"` // first backoff; doubles per attempt
	MaxTokens    int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64       `mapstructure:"temperature" yaml:"temperature"`
	Gemini       gemini.Config `mapstructure:"gemini" yaml:"gemini"`
	OpenAI       openai.Config `mapstructure:"openai" yaml:"openai"`
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:     ProviderGemini,
		Timeout:      30 * time.Second,
		MaxRetries:   2,
		RetryBackoff: 500 * time.Millisecond,
		MaxTokens:    512,
		Temperature:  0.7,
		Gemini:       gemini.DefaultConfig(),
		OpenAI:       openai.DefaultConfig(),
	}
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	default:
		return c.Gemini.APIKey
	}
}

// Model returns the default model of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAI.Model
	default:
		return c.Gemini.Model
	}
}

// NewProvider creates the provider adapter selected by cfg.Provider.
func NewProvider(cfg Config, logger *zap.Logger) (pkgllm.Provider, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return gemini.New(cfg.Gemini, logger.Named(ProviderGemini))
	case ProviderOpenAI:
		return openai.New(cfg.OpenAI, logger.Named(ProviderOpenAI))
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// ReportHealth logs whether the provider is reachable and which models it
// offers. An unreachable provider is not fatal: requests will fail with a
// ProviderError until it comes online.
func ReportHealth(ctx context.Context, p pkgllm.Provider, name string, logger *zap.Logger) {
	hr, ok := p.(pkgllm.HealthReporter)
	if !ok {
		return
	}

	if err := hr.Heartbeat(ctx); err != nil {
		logger.Warn("llm provider not reachable; reviews will fail until it comes online",
			zap.String("provider", name),
			zap.Error(err),
		)
		return
	}

	models, err := hr.ListModels(ctx)
	if err != nil {
		logger.Warn("failed to list models",
			zap.String("provider", name),
			zap.Error(err),
		)
		return
	}

	logger.Info("llm provider connected",
		zap.String("provider", name),
		zap.Int("models", len(models)),
	)
}
