package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgllm "github.com/HerbHall/postreview/pkg/llm"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Prometheus completion metrics.
var (
	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postreview_llm_requests_total",
			Help: "Total number of completion calls by outcome (success or provider error code).",
		},
		[]string{"provider", "outcome"},
	)
	completionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "postreview_llm_request_duration_seconds",
			Help:    "Completion call duration in seconds, retries included.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(completionsTotal)
	prometheus.MustRegister(completionDuration)
}

// Client is the completion client used by the review pipeline. It turns a
// prompt into cleaned completion text through the configured provider.
// Safe for concurrent use; it holds no per-request state.
type Client struct {
	provider pkgllm.Provider
	name     string
	cfg      Config
	logger   *zap.Logger
}

// NewClient wraps provider with the timeout, retry and generation settings of cfg.
func NewClient(provider pkgllm.Provider, cfg Config, logger *zap.Logger) *Client {
	name := cfg.Provider
	if name == "" {
		name = ProviderGemini
	}
	return &Client{
		provider: provider,
		name:     name,
		cfg:      cfg,
		logger:   logger,
	}
}

// Complete sends prompt to the provider and returns the completion text.
// The whole call, retries included, is bounded by the configured timeout.
// Every failure is returned as a *pkgllm.ProviderError, except cancellation
// by the caller, which returns an error wrapping context.Canceled and is not
// counted as a provider failure.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	opts := []pkgllm.CallOption{pkgllm.WithTemperature(c.cfg.Temperature)}
	if c.cfg.MaxTokens > 0 {
		opts = append(opts, pkgllm.WithMaxTokens(c.cfg.MaxTokens))
	}

	start := time.Now()
	var resp *pkgllm.Response
	err := retryWithBackoff(ctx, c.cfg.MaxRetries, c.cfg.RetryBackoff, func(attempt int) error {
		r, err := c.provider.Generate(ctx, prompt, opts...)
		if err != nil {
			c.logger.Warn("completion attempt failed",
				zap.String("provider", c.name),
				zap.Int("attempt", attempt+1),
				zap.Bool("retryable", pkgllm.IsRetryable(err)),
				zap.Error(err),
			)
			return err
		}
		resp = r
		return nil
	})
	completionDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			completionsTotal.WithLabelValues(c.name, "cancelled").Inc()
			return "", fmt.Errorf("completion cancelled: %w", ctx.Err())
		}
		err = asProviderError(ctx, err)
		completionsTotal.WithLabelValues(c.name, errorCode(err)).Inc()
		return "", err
	}

	completionsTotal.WithLabelValues(c.name, "success").Inc()
	c.logger.Debug("completion received",
		zap.String("provider", c.name),
		zap.String("model", resp.Model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	if !resp.Done {
		c.logger.Warn("completion truncated by token limit",
			zap.String("provider", c.name),
			zap.Int("max_tokens", c.cfg.MaxTokens),
		)
	}

	return Clean(resp.Content), nil
}

// asProviderError guarantees the error handed to callers is typed. An
// expired call budget always reports as a timeout.
func asProviderError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !pkgllm.IsTimeoutError(err) {
		return pkgllm.NewProviderError(pkgllm.ErrCodeTimeout, "completion timed out", err)
	}
	var pe *pkgllm.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return pkgllm.NewProviderError(pkgllm.ErrCodeServerError, "completion failed", err)
}

func errorCode(err error) string {
	var pe *pkgllm.ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "unknown"
}
