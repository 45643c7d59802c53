package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fixClock(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2025, 3, 1, 10, 20, 30, 456_000_000, time.FixedZone("X", 3600)) }
	t.Cleanup(func() { now = orig })
}

const fixedTimestamp = "2025-03-01T09:20:30.456Z"

func newFilter(buf *bytes.Buffer) *ExceptionFilter {
	return NewExceptionFilter(slog.New(slog.NewTextHandler(buf, nil)))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHandle_SuccessEnvelope(t *testing.T) {
	fixClock(t)

	tests := []struct {
		method     string
		wantStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusCreated},
		{http.MethodDelete, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var buf bytes.Buffer
			h := newFilter(&buf).Handle(func(http.ResponseWriter, *http.Request) (any, error) {
				return map[string]string{"hello": "world"}, nil
			})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/v1/thing", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type = %q", ct)
			}

			want := map[string]any{
				"success":    true,
				"statusCode": float64(tt.wantStatus),
				"timestamp":  fixedTimestamp,
				"data":       map[string]any{"hello": "world"},
			}
			if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandle_NilDataIsNull(t *testing.T) {
	var buf bytes.Buffer
	h := newFilter(&buf).Handle(func(http.ResponseWriter, *http.Request) (any, error) { return nil, nil })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := decode(t, rec)
	if v, ok := body["data"]; !ok || v != nil {
		t.Errorf("data = %v (present=%v), want explicit null", v, ok)
	}
}

func TestCatch(t *testing.T) {
	fixClock(t)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage any
		wantLevel   string
	}{
		{
			name:        "http error keeps status and message",
			err:         NotFound("User not found"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "User not found",
			wantLevel:   "level=WARN",
		},
		{
			name:        "list of messages",
			err:         BadRequest([]string{"name must be a string", "age must be positive"}),
			wantStatus:  http.StatusBadRequest,
			wantMessage: []any{"name must be a string", "age must be positive"},
			wantLevel:   "level=WARN",
		},
		{
			name:        "object body with message field is unwrapped",
			err:         Conflict(map[string]any{"message": "duplicate", "error": "Conflict"}),
			wantStatus:  http.StatusConflict,
			wantMessage: "duplicate",
			wantLevel:   "level=WARN",
		},
		{
			name:        "object body without message field is kept",
			err:         ServiceUnavailable(map[string]any{"status": "error"}),
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: map[string]any{"status": "error"},
			wantLevel:   "level=ERROR",
		},
		{
			name:        "default message from status text",
			err:         TooManyRequests(nil),
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: "Too Many Requests",
			wantLevel:   "level=WARN",
		},
		{
			name:        "plain error is hidden behind 500",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
			wantLevel:   "level=ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7?verbose=1", nil)

			newFilter(&buf).Catch(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			want := map[string]any{
				"success":    false,
				"statusCode": float64(tt.wantStatus),
				"timestamp":  fixedTimestamp,
				"path":       "/api/v1/users/7?verbose=1",
				"message":    tt.wantMessage,
			}
			if diff := cmp.Diff(want, decode(t, rec)); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
			if !strings.Contains(buf.String(), tt.wantLevel) {
				t.Errorf("log = %q, want %s", buf.String(), tt.wantLevel)
			}
		})
	}
}

func TestCatch_WrappedHTTPError(t *testing.T) {
	var buf bytes.Buffer
	rec := httptest.NewRecorder()

	cause := errors.New("duplicate key")
	err := errors.Join(errors.New("repo: insert"), Wrap(http.StatusConflict, "Record already exists", cause))

	newFilter(&buf).Catch(rec, httptest.NewRequest(http.MethodPost, "/x", nil), err)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if body := decode(t, rec); body["message"] != "Record already exists" {
		t.Errorf("message = %v", body["message"])
	}
	if strings.Contains(rec.Body.String(), "duplicate key") {
		t.Error("cause leaked to the client")
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	var buf bytes.Buffer
	f := newFilter(&buf)

	rec := httptest.NewRecorder()
	f.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Cannot GET /nope" {
		t.Errorf("message = %v, want Cannot GET /nope", msg)
	}

	rec = httptest.NewRecorder()
	f.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope?a=1&b=2", nil))
	body := decode(t, rec)
	if body["message"] != "Cannot GET /nope?a=1&b=2" || body["path"] != "/nope?a=1&b=2" {
		t.Errorf("body = %v, want the query string kept", body)
	}

	rec = httptest.NewRecorder()
	f.MethodNotAllowed(rec, httptest.NewRequest(http.MethodPut, "/api/v1/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if msg := decode(t, rec)["message"]; msg != "Method Not Allowed" {
		t.Errorf("message = %v", msg)
	}
}
