package llm

import (
	"context"
	"fmt"
	"time"

	pkgllm "github.com/HerbHall/postreview/pkg/llm"
)

// retryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or maxRetries retries have been spent. The wait before retry n is
// base * 2^(n-1). Waiting observes ctx.
func retryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}

		if !pkgllm.IsRetryable(lastErr) || ctx.Err() != nil {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := base << uint(attempt)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("waiting to retry: %w", ctx.Err())
			case <-timer.C:
			}
		}
	}
	return lastErr
}
