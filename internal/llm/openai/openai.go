// Package openai implements llm.Provider for OpenAI-compatible chat
// completions endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/HerbHall/postreview/pkg/llm"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ llm.Provider       = (*Provider)(nil)
	_ llm.HealthReporter = (*Provider)(nil)
)

// Provider implements llm.Provider using the chat completions API.
type Provider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cfg        Config
	logger     *zap.Logger
}

// New creates an OpenAI-compatible provider.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parse openai url %q: %w", cfg.URL, err)
	}

	return &Provider{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Generate sends prompt as the single user message of a chat completion
// and returns the first choice's message content.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	cfg := llm.ApplyOptions(opts...)

	model := cfg.Model
	if model == "" {
		model = p.cfg.Model
	}

	req := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Stream:      false,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	respBody, err := p.doRequest(ctx, http.MethodPost, "/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, mapError(err)
	}
	defer respBody.Close()

	var resp chatResponse
	if err := json.NewDecoder(respBody).Decode(&resp); err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeMalformed, "decode chat response", err)
	}

	if len(resp.Choices) == 0 {
		return nil, llm.NewProviderError(llm.ErrCodeMalformed, "openai response has no choices", nil)
	}
	choice := resp.Choices[0]
	if choice.Message == nil || choice.Message.Content == nil {
		return nil, llm.NewProviderError(llm.ErrCodeMalformed, "openai choice has no message content", nil)
	}

	respModel := resp.Model
	if respModel == "" {
		respModel = model
	}

	p.logger.Debug("openai completion finished",
		zap.String("model", respModel),
		zap.String("finish_reason", choice.FinishReason),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return &llm.Response{
		Content: *choice.Message.Content,
		Model:   respModel,
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Done: choice.FinishReason != "length",
	}, nil
}

// Heartbeat checks whether the API is reachable with the configured key.
func (p *Provider) Heartbeat(ctx context.Context) error {
	body, err := p.doRequest(ctx, http.MethodGet, "/models", http.NoBody)
	if err != nil {
		return mapError(err)
	}
	body.Close()
	return nil
}

// ListModels returns the available model IDs.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	body, err := p.doRequest(ctx, http.MethodGet, "/models", http.NoBody)
	if err != nil {
		return nil, mapError(err)
	}
	defer body.Close()

	var result listResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeMalformed, "decode list response", err)
	}

	names := make([]string, len(result.Data))
	for i := range result.Data {
		names[i] = result.Data[i].ID
	}
	return names, nil
}

// doRequest sends an authenticated request and returns the response body.
func (p *Provider) doRequest(ctx context.Context, method, path string, body io.Reader) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, parseStatusError(resp)
	}

	return resp.Body, nil
}

// parseStatusError reads an error response body.
func parseStatusError(resp *http.Response) *openaiStatusError {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	// Read a limited amount to avoid unbounded reads.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &errResp); err != nil {
		return &openaiStatusError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	msg := errResp.Error.Message
	if msg == "" {
		msg = resp.Status
	}
	typ := errResp.Error.Type
	if errResp.Error.Code == "context_length_exceeded" {
		typ = errResp.Error.Code
	}
	return &openaiStatusError{
		StatusCode: resp.StatusCode,
		Type:       typ,
		Message:    msg,
	}
}

// --- Chat completions REST API types (internal) ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message *struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type listResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}
