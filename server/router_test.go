package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/godamri/helix-api/http/response"
	"github.com/godamri/helix-api/server/health"
)

func newTestRouter(t *testing.T, production bool, ping health.PingFunc) http.Handler {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	return NewRouter(RouterDeps{
		Logger:      logger,
		Filter:      response.NewExceptionFilter(logger),
		Health:      health.NewChecker(logger, health.NewIndicator("database", ping)),
		ServiceName: "helix-api-test",
		Production:  production,
	})
}

func up(context.Context) error { return nil }

func TestRouter_HealthUnderGlobalPrefix(t *testing.T) {
	router := newTestRouter(t, false, up)

	req := httptest.NewRequest(http.MethodGet, APIPrefix+"/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success    bool          `json:"success"`
		StatusCode int           `json:"statusCode"`
		Data       health.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.StatusCode != http.StatusOK || body.Data.Status != health.StatusOK {
		t.Errorf("body = %+v", body)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("development mode should allow any origin")
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id")
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t, true, up)

	for _, path := range []string{"/nope", APIPrefix + "/nope", "/health", APIPrefix + "/nope?page=2"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Origin", "http://localhost:5173")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["message"] != "Cannot GET "+path || body["path"] != path {
				t.Errorf("body = %v", body)
			}
			if rec.Header().Get("Access-Control-Allow-Origin") != "" {
				t.Error("production mode must not send CORS headers")
			}
		})
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, false, up)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, APIPrefix+"/health", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, false, up)

	// Generate at least one observation.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, APIPrefix+"/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("metrics output missing http_requests_total")
	}
	if !strings.Contains(rec.Body.String(), `route="/api/v1/health"`) {
		t.Error("metrics should be labeled by route pattern")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	srv := New(Config{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, logger, newTestRouter(t, false, up))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	resp, err := http.Get("http://" + lis.Addr().String() + APIPrefix + "/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v, want nil after shutdown", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestConfig_Addr(t *testing.T) {
	if got := (Config{Port: 3000}).Addr(); got != ":3000" {
		t.Errorf("Addr() = %q, want :3000", got)
	}
}
