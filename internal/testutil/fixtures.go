package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/HerbHall/postreview/internal/review"
)

// NewReviewRequest returns a Request with sensible defaults, suitable for
// test fixtures.
func NewReviewRequest(opts ...func(*review.Request)) review.Request {
	r := review.Request{
		Text:     "Excited to share our new release with everyone!",
		Platform: "twitter",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithText sets the post text.
func WithText(text string) func(*review.Request) {
	return func(r *review.Request) { r.Text = text }
}

// WithPlatform sets the target platform.
func WithPlatform(name string) func(*review.Request) {
	return func(r *review.Request) { r.Platform = name }
}

// GeminiReply is one scripted generateContent answer. A non-zero Status
// produces an error response instead of Text.
type GeminiReply struct {
	Text   string
	Status int
}

// GeminiServer is a fake generateContent endpoint that answers with
// scripted replies in order and records the prompts it receives.
type GeminiServer struct {
	*httptest.Server

	mu      sync.Mutex
	replies []GeminiReply
	prompts []string
}

// NewGeminiServer starts a fake Gemini API closed at test cleanup.
func NewGeminiServer(t *testing.T, replies ...GeminiReply) *GeminiServer {
	t.Helper()
	g := &GeminiServer{replies: replies}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /models/{action}", g.handleGenerate)
	g.Server = httptest.NewServer(mux)
	t.Cleanup(g.Close)
	return g
}

// Prompts returns the prompts received so far.
func (g *GeminiServer) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func (g *GeminiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.PathValue("action"), ":generateContent") {
		http.NotFound(w, r)
		return
	}
	var body struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Contents) == 0 || len(body.Contents[0].Parts) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.prompts = append(g.prompts, body.Contents[0].Parts[0].Text)
	reply := GeminiReply{Status: http.StatusServiceUnavailable}
	if len(g.replies) > 0 {
		reply = g.replies[0]
		g.replies = g.replies[1:]
	}
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    reply.Status,
				"message": http.StatusText(reply.Status),
				"status":  "UNAVAILABLE",
			},
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": reply.Text}},
				},
				"finishReason": "STOP",
			},
		},
		"modelVersion": "gemini-test",
	})
}
