package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/postreview/internal/config"
	"github.com/HerbHall/postreview/internal/testutil"
	"github.com/HerbHall/postreview/internal/ws"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// isolate runs the test in an empty directory with no credentials in the
// environment.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"GEMINI_API_KEY", "GEMINI_API_URL", "OPENAI_API_KEY",
		"POSTREVIEW_LLM_GEMINI_API_KEY", "POSTREVIEW_LLM_GEMINI_URL",
		"POSTREVIEW_LLM_PROVIDER", "POSTREVIEW_LLM_MAX_RETRIES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// useGemini points the configuration at a fake Gemini endpoint.
func useGemini(t *testing.T, replies ...testutil.GeminiReply) *testutil.GeminiServer {
	t.Helper()
	gemini := testutil.NewGeminiServer(t, replies...)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_API_URL", gemini.URL)
	t.Setenv("POSTREVIEW_LLM_MAX_RETRIES", "0")
	t.Setenv("POSTREVIEW_LOGGING_LEVEL", "error")
	return gemini
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "postreview ") {
		t.Errorf("output = %q, want postreview prefix", out)
	}
}

func TestConfigShow_RedactsKey(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "super-secret")

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Fatalf("output leaks the API key:\n%s", out)
	}

	var shown config.Config
	if err := yaml.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if shown.LLM.Gemini.APIKey != "[redacted]" {
		t.Errorf("gemini api_key = %q, want [redacted]", shown.LLM.Gemini.APIKey)
	}
	if shown.Server.Port != 5000 {
		t.Errorf("server.port = %d, want 5000", shown.Server.Port)
	}
}

func TestConfigShow_MissingKeyIsNotAnError(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "provider: gemini") {
		t.Errorf("output missing provider:\n%s", out)
	}
}

func TestReviewCmd_MissingKey(t *testing.T) {
	isolate(t)

	_, err := execute(t, "review", "--text", "hello")
	var cfgErr *config.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *config.ConfigurationError", err)
	}
	if got := exitCode(err); got != 2 {
		t.Errorf("exitCode = %d, want 2", got)
	}
}

func TestReviewCmd_PrintsResult(t *testing.T) {
	isolate(t)
	gemini := useGemini(t,
		testutil.GeminiReply{Text: "1. Lead with the benefit.\n2. Add a call to action.\n3. Use one hashtag."},
		testutil.GeminiReply{Text: "Our new release is here. Try it today! #release"},
	)

	out, err := execute(t, "review", "--text", "We shipped a new release.", "--platform", "twitter")
	if err != nil {
		t.Fatalf("review: %v", err)
	}

	var got struct {
		Tone        string `json:"tone"`
		Limitations struct {
			CharLimit    int `json:"char_limit"`
			HashtagLimit int `json:"hashtag_limit"`
		} `json:"limitations"`
		Suggestions string `json:"suggestions"`
		RevisedPost string `json:"revised_post"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Tone == "" {
		t.Error("tone is empty")
	}
	if got.Limitations.CharLimit != 280 || got.Limitations.HashtagLimit != 30 {
		t.Errorf("limitations = %+v, want 280/30", got.Limitations)
	}
	if !strings.HasPrefix(got.Suggestions, "1. Lead with the benefit.") {
		t.Errorf("suggestions = %q", got.Suggestions)
	}
	if got.RevisedPost != "Our new release is here. Try it today! #release" {
		t.Errorf("revised_post = %q", got.RevisedPost)
	}

	prompts := gemini.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("gemini calls = %d, want 2", len(prompts))
	}
	if !strings.Contains(prompts[1], "Add a call to action.") {
		t.Errorf("revision prompt does not carry the suggestions:\n%s", prompts[1])
	}
}

func TestReviewCmd_ProviderFailure(t *testing.T) {
	isolate(t)
	useGemini(t, testutil.GeminiReply{Status: http.StatusInternalServerError})

	_, err := execute(t, "review", "--text", "hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "suggestions stage failed") {
		t.Errorf("error = %v, want suggestions stage failure", err)
	}
	if got := exitCode(err); got != 1 {
		t.Errorf("exitCode = %d, want 1", got)
	}
}

// newTestApp loads the configuration from the environment and serves the
// wired app from an httptest server.
func newTestApp(t *testing.T) (*app, *httptest.Server) {
	t.Helper()
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	logger := zap.NewNop()
	pipeline, _, err := newPipeline(cfg, logger)
	if err != nil {
		t.Fatalf("newPipeline: %v", err)
	}
	a := newApp(cfg, pipeline, logger)
	ts := httptest.NewServer(a.server.Handler())
	t.Cleanup(ts.Close)
	return a, ts
}

func TestApp_Review(t *testing.T) {
	isolate(t)
	useGemini(t,
		testutil.GeminiReply{Text: "1. Be concise."},
		testutil.GeminiReply{Text: "Short and sweet."},
	)
	_, ts := newTestApp(t)

	resp, err := http.Post(ts.URL+"/review", "application/json",
		strings.NewReader(`{"text":"Hello world","platform":"linkedin"}`))
	if err != nil {
		t.Fatalf("POST /review: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID")
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["revised_post"] != "Short and sweet." {
		t.Errorf("revised_post = %v", body["revised_post"])
	}
}

func TestApp_ProviderFailureIsBadGateway(t *testing.T) {
	isolate(t)
	useGemini(t, testutil.GeminiReply{Status: http.StatusServiceUnavailable})
	_, ts := newTestApp(t)

	resp, err := http.Post(ts.URL+"/api/v1/review", "application/json",
		strings.NewReader(`{"text":"Hello world"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
}

func TestApp_Stream(t *testing.T) {
	isolate(t)
	useGemini(t,
		testutil.GeminiReply{Text: "1. Add an emoji."},
		testutil.GeminiReply{Text: "Hello world!"},
	)
	_, ts := newTestApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/review/stream"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	req := testutil.NewReviewRequest(testutil.WithText("Hello world"))
	if err := wsjson.Write(ctx, conn, req); err != nil {
		t.Fatalf("write request: %v", err)
	}

	var last ws.Message
	for {
		var msg ws.Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != ws.MessageReviewStage {
			last = msg
			break
		}
	}
	if last.Type != ws.MessageReviewCompleted {
		t.Fatalf("final message type = %q, want %q", last.Type, ws.MessageReviewCompleted)
	}
}

func TestApp_ShutdownMarksNotReady(t *testing.T) {
	isolate(t)
	useGemini(t)
	a, ts := newTestApp(t)

	ready := func() int {
		t.Helper()
		resp, err := http.Get(ts.URL + "/readyz")
		if err != nil {
			t.Fatalf("GET /readyz: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := ready(); got != http.StatusOK {
		t.Fatalf("before shutdown: status = %d, want 200", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if got := ready(); got != http.StatusServiceUnavailable {
		t.Errorf("after shutdown: status = %d, want 503", got)
	}
}
