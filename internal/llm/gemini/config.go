package gemini

// Config holds the Gemini provider configuration.
type Config struct {
	// URL is the API base (".../v1beta"). A full ":generateContent" endpoint
	// is also accepted and used as-is, which is how GEMINI_API_URL was
	// historically configured.
	URL    string `mapstructure:"url" yaml:"url"`
	Model  string `mapstructure:"model" yaml:"model"`
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// DefaultConfig returns sensible defaults for Gemini.
func DefaultConfig() Config {
	return Config{
		URL:   "https://generativelanguage.googleapis.com/v1beta",
		Model: "gemini-2.0-flash",
	}
}
