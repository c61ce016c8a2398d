package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/HerbHall/postreview/pkg/llm"
)

// Compile-time interface guard.
var _ llm.Provider = (*Stub)(nil)

// Reply is one scripted answer of a Stub: either content or an error.
type Reply struct {
	Content string
	Err     error
}

// Stub is a scripted llm.Provider that records every prompt it receives.
// Replies are consumed in order; once exhausted, Fallback is returned.
// Safe for concurrent use.
type Stub struct {
	mu       sync.Mutex
	replies  []Reply
	prompts  []string
	Fallback Reply
}

// NewStub creates a Stub answering with the given replies in order.
func NewStub(replies ...Reply) *Stub {
	return &Stub{replies: replies}
}

// Generate records prompt and returns the next scripted reply.
func (s *Stub) Generate(ctx context.Context, prompt string, _ ...llm.CallOption) (*llm.Response, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	r := s.Fallback
	if len(s.replies) > 0 {
		r = s.replies[0]
		s.replies = s.replies[1:]
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, llm.NewProviderError(llm.ErrCodeTimeout, "request timed out", err)
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &llm.Response{Content: r.Content, Model: "stub", Done: true}, nil
}

// Prompts returns a copy of every prompt received so far.
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Calls returns the number of Generate calls received so far.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
