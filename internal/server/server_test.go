package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// routeFunc adapts a function to RouteRegistrar.
type routeFunc func(mux *http.ServeMux)

func (f routeFunc) RegisterRoutes(mux *http.ServeMux) { f(mux) }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	return cfg
}

func newTestServer(ready ReadinessChecker) *Server {
	return New(testConfig(), zap.NewNop(), ready)
}

func TestHandleHealthz(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "alive" {
		t.Errorf("status = %q, want %q", body["status"], "alive")
	}
}

func TestHandleReadyz(t *testing.T) {
	tests := []struct {
		name       string
		ready      ReadinessChecker
		wantStatus int
		wantBody   string
	}{
		{"healthy", func(context.Context) error { return nil }, http.StatusOK, "ready"},
		{"unhealthy", func(context.Context) error { return errors.New("no completion provider configured") }, http.StatusServiceUnavailable, "not ready"},
		{"nil checker", nil, http.StatusOK, "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(tt.ready)

			req := httptest.NewRequest("GET", "/readyz", http.NoBody)
			w := httptest.NewRecorder()
			srv.mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body map[string]string
			json.NewDecoder(w.Body).Decode(&body)
			if body["status"] != tt.wantBody {
				t.Errorf("status = %q, want %q", body["status"], tt.wantBody)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/api/v1/health", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	json.NewDecoder(w.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want %q", body["status"], "ok")
	}
	if body["service"] != "postreview" {
		t.Errorf("service = %v, want %q", body["service"], "postreview")
	}
	if body["version"] == nil {
		t.Error("expected version field in response")
	}
}

func TestHandleMetrics(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected prometheus Go runtime metrics in /metrics output")
	}
}

func TestMiddlewareChain_Integration(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	w := httptest.NewRecorder()

	// Use the full handler (with middleware chain) instead of just the mux.
	srv.Handler().ServeHTTP(w, req)

	if v := w.Header().Get("X-Postreview-Version"); v == "" {
		t.Error("expected X-Postreview-Version header from middleware")
	}
	if v := w.Header().Get("X-Request-ID"); v == "" {
		t.Error("expected X-Request-ID header from middleware")
	}
	if v := w.Header().Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want %q", v, "nosniff")
	}
}

func TestRoutes_Registered(t *testing.T) {
	routes := routeFunc(func(mux *http.ServeMux) {
		mux.HandleFunc("POST /review", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	})
	srv := New(testConfig(), zap.NewNop(), nil, routes)

	req := httptest.NewRequest("POST", "/review", http.NoBody)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusAccepted)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(nil)

	req := httptest.NewRequest(http.MethodOptions, "/review", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if v := w.Header().Get("Access-Control-Allow-Origin"); v != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", v)
	}
	if v := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(v, "POST") {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", v)
	}
}

func TestSwagger_DevModeOnly(t *testing.T) {
	tests := []struct {
		name       string
		devMode    bool
		wantStatus int
	}{
		{"dev mode", true, http.StatusOK},
		{"production", false, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.DevMode = tt.devMode
			srv := New(cfg, zap.NewNop(), nil)

			req := httptest.NewRequest("GET", "/swagger/index.html", http.NoBody)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RPS = 0
	srv := New(cfg, zap.NewNop(), nil)

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("GET", "/api/v1/health", http.NoBody)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, w.Code, http.StatusOK)
		}
	}
}

func TestRateLimit_TrustedProxies(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		secondCode int
	}{
		{"direct peer keyed", nil, http.StatusTooManyRequests},
		{"behind trusted proxy", []string{"10.0.0.0/8"}, http.StatusOK},
		{"invalid entries fall back to peer", []string{"not-an-ip"}, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RateLimit = RateLimitConfig{RPS: 1, Burst: 1}
			cfg.TrustedProxies = tt.trusted
			srv := New(cfg, zap.NewNop(), nil)

			codes := make([]int, 0, 2)
			for _, xff := range []string{"203.0.113.1", "203.0.113.2"} {
				req := httptest.NewRequest("GET", "/api/v1/health", http.NoBody)
				req.RemoteAddr = "10.0.0.5:4321"
				req.Header.Set("X-Forwarded-For", xff)
				w := httptest.NewRecorder()
				srv.Handler().ServeHTTP(w, req)
				codes = append(codes, w.Code)
			}
			if codes[0] != http.StatusOK || codes[1] != tt.secondCode {
				t.Errorf("status codes = %v, want [%d %d]", codes, http.StatusOK, tt.secondCode)
			}
		})
	}
}

func TestConfig_Addr(t *testing.T) {
	cfg := Config{Host: "0.0.0.0", Port: 5000}
	if got := cfg.Addr(); got != "0.0.0.0:5000" {
		t.Errorf("Addr() = %q, want %q", got, "0.0.0.0:5000")
	}
}
