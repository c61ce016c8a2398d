// Package llmtest provides shared test helpers for llm.Provider
// implementations: a behavioural contract suite every provider adapter runs,
// and a scripted Stub provider for testing code that consumes a provider.
package llmtest

import (
	"context"
	"errors"
	"testing"

	"github.com/HerbHall/postreview/pkg/llm"
)

// TestProviderContract runs a suite of behavioural contract tests against
// any llm.Provider implementation. The factory must return a provider whose
// backend answers every generation with non-empty text, usually an
// httptest server speaking the provider's wire format:
//
//	func TestContract(t *testing.T) {
//	    srv := fakeGemini(t)
//	    llmtest.TestProviderContract(t, func() llm.Provider { return newTestProvider(t, srv.URL) })
//	}
func TestProviderContract(t *testing.T, factory func() llm.Provider) {
	t.Helper()

	t.Run("Generate_returns_non_empty_response", func(t *testing.T) {
		p := factory()
		resp, err := p.Generate(context.Background(), "Say hello in exactly three words")
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if resp == nil {
			t.Fatal("Generate() returned nil response")
		}
		if resp.Content == "" {
			t.Error("Generate() returned empty content")
		}
		if resp.Model == "" {
			t.Error("Response.Model must not be empty")
		}
	})

	t.Run("Generate_empty_prompt", func(t *testing.T) {
		p := factory()
		if _, err := p.Generate(context.Background(), ""); err != nil {
			t.Fatalf("Generate(\"\") error = %v", err)
		}
	})

	t.Run("Generate_with_options", func(t *testing.T) {
		p := factory()
		resp, err := p.Generate(
			context.Background(),
			"Hi",
			llm.WithModel("contract-model"),
			llm.WithTemperature(0),
			llm.WithMaxTokens(16),
		)
		if err != nil {
			t.Fatalf("Generate() with options error = %v", err)
		}
		if resp.Model == "" {
			t.Error("Response.Model must not be empty")
		}
	})

	t.Run("Generate_cancelled_context", func(t *testing.T) {
		p := factory()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Generate(ctx, "Write a very long essay about everything")
		if err == nil {
			t.Fatal("Generate() with cancelled context should return error")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Generate() with cancelled context error = %v, want context.Canceled", err)
		}
		if llm.IsTimeoutError(err) {
			t.Errorf("Generate() with cancelled context error = %v, must not report a timeout", err)
		}
	})

	t.Run("HealthReporter_if_implemented", func(t *testing.T) {
		p := factory()
		hr, ok := p.(llm.HealthReporter)
		if !ok {
			t.Skip("Provider does not implement HealthReporter")
		}
		if err := hr.Heartbeat(context.Background()); err != nil {
			t.Errorf("Heartbeat() error = %v", err)
		}
		models, err := hr.ListModels(context.Background())
		if err != nil {
			t.Fatalf("ListModels() error = %v", err)
		}
		if len(models) == 0 {
			t.Error("ListModels() returned empty list")
		}
	})
}
