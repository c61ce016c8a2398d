package llm

// Response contains the provider's generated text and metadata.
type Response struct {
	Content string `json:"content"` // Generated text.
	Model   string `json:"model"`   // Model that produced this response.
	Usage   Usage  `json:"usage"`   // Token consumption stats.
	Done    bool   `json:"done"`    // True if generation completed (false if truncated).
}

// Usage tracks token consumption for a single call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
