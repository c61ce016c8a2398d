// Package gemini implements llm.Provider for Google's Gemini
// generateContent REST API.
package gemini

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

// Provider implements llm.Provider for Gemini.
type Provider struct {
	apiKey     string
	httpClient *http.Client
	cfg        Config
	logger     *zap.Logger
}

// New creates a Gemini provider. Per-call deadlines come from the caller's
// context; the HTTP client itself carries no timeout.
func New(cfg Config, logger *zap.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("parse gemini url %q: %w", cfg.URL, err)
	}

	return &Provider{
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Generate sends prompt as the sole content part of a single-turn
// generateContent request and returns the first candidate's first part text.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.CallOption) (*llm.Response, error) {
	cfg := llm.ApplyOptions(opts...)

	model := cfg.Model
	if model == "" {
		model = p.cfg.Model
	}

	temp := cfg.Temperature
	req := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: &prompt}}},
		},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: cfg.MaxTokens,
			Temperature:     &temp,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	respBody, err := p.doRequest(ctx, http.MethodPost, p.generateURL(model), bytes.NewReader(body))
	if err != nil {
		return nil, mapError(err)
	}
	defer respBody.Close()

	var resp generateResponse
	if err := json.NewDecoder(respBody).Decode(&resp); err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeMalformed, "decode gemini response", err)
	}

	text, err := completionText(&resp)
	if err != nil {
		return nil, err
	}

	respModel := resp.ModelVersion
	if respModel == "" {
		respModel = model
	}

	p.logger.Debug("gemini generation finished",
		zap.String("model", respModel),
		zap.String("finish_reason", resp.Candidates[0].FinishReason),
		zap.Int("total_tokens", resp.UsageMetadata.TotalTokenCount),
	)

	return &llm.Response{
		Content: text,
		Model:   respModel,
		Usage: llm.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
		Done: resp.Candidates[0].FinishReason != "MAX_TOKENS",
	}, nil
}

// completionText extracts the first part's text of the first candidate.
// Every missing level of the structure is reported as a malformed response.
func completionText(resp *generateResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", llm.NewProviderError(llm.ErrCodeInvalidRequest,
			"gemini blocked the prompt: "+resp.PromptFeedback.BlockReason, nil)
	}
	if len(resp.Candidates) == 0 {
		return "", llm.NewProviderError(llm.ErrCodeMalformed, "gemini response has no candidates", nil)
	}

	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		msg := "gemini candidate has no content parts"
		if cand.FinishReason != "" {
			msg += " (finish reason " + cand.FinishReason + ")"
		}
		return "", llm.NewProviderError(llm.ErrCodeMalformed, msg, nil)
	}

	first := cand.Content.Parts[0]
	if first.Text == nil {
		return "", llm.NewProviderError(llm.ErrCodeMalformed, "gemini candidate part has no text", nil)
	}
	return *first.Text, nil
}

// Heartbeat checks whether the Gemini API is reachable with the configured key.
func (p *Provider) Heartbeat(ctx context.Context) error {
	body, err := p.doRequest(ctx, http.MethodGet, p.baseURL()+"/models?pageSize=1", http.NoBody)
	if err != nil {
		return mapError(err)
	}
	body.Close()
	return nil
}

// ListModels returns the model names that support generateContent.
func (p *Provider) ListModels(ctx context.Context) ([]string, error) {
	body, err := p.doRequest(ctx, http.MethodGet, p.baseURL()+"/models", http.NoBody)
	if err != nil {
		return nil, mapError(err)
	}
	defer body.Close()

	var result listResponse
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, llm.NewProviderError(llm.ErrCodeMalformed, "decode gemini model list", err)
	}

	names := make([]string, 0, len(result.Models))
	for i := range result.Models {
		m := &result.Models[i]
		if len(m.SupportedGenerationMethods) > 0 && !contains(m.SupportedGenerationMethods, "generateContent") {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return names, nil
}

func (p *Provider) generateURL(model string) string {
	if strings.Contains(p.cfg.URL, ":generateContent") {
		return p.cfg.URL
	}
	return fmt.Sprintf("%s/models/%s:generateContent", p.baseURL(), model)
}

// baseURL returns the API root, stripping a full endpoint back to its version prefix.
func (p *Provider) baseURL() string {
	u := strings.TrimRight(p.cfg.URL, "/")
	if i := strings.Index(u, "/models/"); i >= 0 {
		u = u[:i]
	}
	return u
}

// doRequest sends an authenticated request and returns the response body.
// The key travels in the x-goog-api-key header so it never appears in URLs or logs.
func (p *Provider) doRequest(ctx context.Context, method, endpoint string, body io.Reader) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseStatusError(resp)
	}

	return resp.Body, nil
}

// parseStatusError reads a Google RPC error envelope from a failed response.
func parseStatusError(resp *http.Response) *statusError {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	// Read a limited amount to avoid unbounded reads.
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Error.Message == "" {
		return &statusError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	return &statusError{
		StatusCode: resp.StatusCode,
		Status:     errResp.Error.Status,
		Message:    errResp.Error.Message,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// --- Gemini REST API types (internal) ---

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

// part.Text is a pointer so a part without a text field can be told apart
// from a part whose text is empty.
type part struct {
	Text *string `json:"text,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  usageMetadata   `json:"usageMetadata"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

type candidate struct {
	Content      *content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type listResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}
