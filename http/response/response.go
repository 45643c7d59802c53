package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// Millisecond ISO-8601 in UTC, e.g. 2025-01-02T15:04:05.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var now = time.Now

// Envelope wraps every successful payload.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Data       any    `json:"data"`
}

// ErrorEnvelope is the body produced by the exception filter.
type ErrorEnvelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Message    any    `json:"message"`
}

// JSON writes data inside the success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{
		Success:    true,
		StatusCode: status,
		Timestamp:  timestamp(),
		Data:       data,
	})
}

func timestamp() string {
	return now().UTC().Format(timestampLayout)
}

func write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding failures here mean the client went away; nothing left to report to.
	_ = json.NewEncoder(w).Encode(payload)
}
