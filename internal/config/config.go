// Package config loads the service configuration from defaults, a YAML
// file, a .env file and the environment, and validates it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/HerbHall/postreview/internal/llm"
	"github.com/HerbHall/postreview/internal/review"
	"github.com/HerbHall/postreview/internal/server"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix is the prefix of environment overrides: POSTREVIEW_SERVER_PORT=8080.
const EnvPrefix = "POSTREVIEW"

// Config is the complete, immutable service configuration.
type Config struct {
	Server  server.Config `mapstructure:"server" yaml:"server"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	LLM     llm.Config    `mapstructure:"llm" yaml:"llm"`
	Review  review.Config `mapstructure:"review" yaml:"review"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// ConfigurationError reports an invalid or incomplete configuration. It is
// fatal at startup.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	srv := server.DefaultConfig()
	v.SetDefault("server.host", srv.Host)
	v.SetDefault("server.port", srv.Port)
	v.SetDefault("server.dev_mode", srv.DevMode)
	v.SetDefault("server.cors_origins", srv.CORSOrigins)
	v.SetDefault("server.rate_limit.rps", srv.RateLimit.RPS)
	v.SetDefault("server.rate_limit.burst", srv.RateLimit.Burst)
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.read_timeout", srv.ReadTimeout)
	v.SetDefault("server.write_timeout", srv.WriteTimeout)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	gen := llm.DefaultConfig()
	v.SetDefault("llm.provider", gen.Provider)
	v.SetDefault("llm.timeout", gen.Timeout)
	v.SetDefault("llm.max_retries", gen.MaxRetries)
	v.SetDefault("llm.retry_backoff", gen.RetryBackoff)
	v.SetDefault("llm.max_tokens", gen.MaxTokens)
	v.SetDefault("llm.temperature", gen.Temperature)
	v.SetDefault("llm.gemini.url", gen.Gemini.URL)
	v.SetDefault("llm.gemini.model", gen.Gemini.Model)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.openai.url", gen.OpenAI.URL)
	v.SetDefault("llm.openai.model", gen.OpenAI.Model)
	v.SetDefault("llm.openai.api_key", "")

	v.SetDefault("review.suggestion_count", review.DefaultConfig().SuggestionCount)
}

// LoadConfig reads configuration from file and environment variables.
// A .env file in the working directory is loaded into the environment
// first; variables already set are not overridden.
func LoadConfig(configPath string) (*viper.Viper, error) {
	if err := gotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("postreview")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/postreview")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variable names used by earlier deployments of the service.
	_ = v.BindEnv("llm.gemini.api_key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("llm.gemini.url", EnvPrefix+"_LLM_GEMINI_URL", "GEMINI_API_URL")
	_ = v.BindEnv("llm.openai.api_key", EnvPrefix+"_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode unmarshals v into a Config without validating it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings needed to serve requests. The first problem
// found is returned as a *ConfigurationError.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI:
	default:
		return &ConfigurationError{Key: "llm.provider", Reason: fmt.Sprintf("unknown provider %q", c.LLM.Provider)}
	}
	if c.LLM.APIKey() == "" {
		key := "llm." + c.LLM.Provider + ".api_key"
		return &ConfigurationError{Key: key, Reason: "API key is required"}
	}
	if c.LLM.Timeout <= 0 {
		return &ConfigurationError{Key: "llm.timeout", Reason: "must be positive"}
	}
	if c.LLM.MaxRetries < 0 {
		return &ConfigurationError{Key: "llm.max_retries", Reason: "must not be negative"}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigurationError{Key: "server.port", Reason: fmt.Sprintf("%d is out of range", c.Server.Port)}
	}
	if _, err := server.ParseTrustedProxies(c.Server.TrustedProxies); err != nil {
		return &ConfigurationError{Key: "server.trusted_proxies", Reason: err.Error()}
	}
	if c.Review.SuggestionCount < 1 || c.Review.SuggestionCount > 10 {
		return &ConfigurationError{Key: "review.suggestion_count", Reason: "must be between 1 and 10"}
	}
	return nil
}

const redacted = "[redacted]"

// Redacted returns a copy of c with credentials masked, for display.
func (c Config) Redacted() Config {
	if c.LLM.Gemini.APIKey != "" {
		c.LLM.Gemini.APIKey = redacted
	}
	if c.LLM.OpenAI.APIKey != "" {
		c.LLM.OpenAI.APIKey = redacted
	}
	return c
}
