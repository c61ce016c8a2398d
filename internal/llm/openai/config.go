package openai

// Config holds the OpenAI-compatible provider configuration. Any server
// speaking the chat completions API (OpenAI, OpenRouter, LM Studio, vLLM)
// can be targeted through URL.
type Config struct {
	URL    string `mapstructure:"url" yaml:"url"`
	Model  string `mapstructure:"model" yaml:"model"`
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// DefaultConfig returns sensible defaults for OpenAI.
func DefaultConfig() Config {
	return Config{
		URL:   "https://api.openai.com/v1",
		Model: "gpt-4o-mini",
	}
}
