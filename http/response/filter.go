package response

import (
	"fmt"
	"log/slog"
	"net/http"
)

// HandlerFunc is an endpoint that returns its payload instead of writing it.
// The returned value is wrapped in the success envelope; a returned error is
// handed to the exception filter.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) (any, error)

// ExceptionFilter is the single place where errors become HTTP responses.
type ExceptionFilter struct {
	logger *slog.Logger
}

func NewExceptionFilter(logger *slog.Logger) *ExceptionFilter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExceptionFilter{logger: logger.With("component", "ExceptionFilter")}
}

// Catch renders err into the error envelope. Server errors are logged with
// their cause; client errors only as a warning line.
func (f *ExceptionFilter) Catch(w http.ResponseWriter, r *http.Request, err error) {
	he := AsHTTPError(err)
	path := r.URL.RequestURI()

	if he.Status >= http.StatusInternalServerError {
		f.logger.ErrorContext(r.Context(), r.Method+" "+path, "error", err)
	} else {
		f.logger.WarnContext(r.Context(), fmt.Sprintf("%s %s %d", r.Method, path, he.Status))
	}

	write(w, he.Status, ErrorEnvelope{
		Success:    false,
		StatusCode: he.Status,
		Timestamp:  timestamp(),
		Path:       path,
		Message:    messageOf(he.Message),
	})
}

// Handle adapts a HandlerFunc to http.Handler. POST answers 201, everything else 200.
func (f *ExceptionFilter) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fn(w, r)
		if err != nil {
			f.Catch(w, r, err)
			return
		}

		status := http.StatusOK
		if r.Method == http.MethodPost {
			status = http.StatusCreated
		}
		JSON(w, status, data)
	}
}

// NotFound matches the router's fallback signature.
func (f *ExceptionFilter) NotFound(w http.ResponseWriter, r *http.Request) {
	f.Catch(w, r, NotFound(fmt.Sprintf("Cannot %s %s", r.Method, r.URL.RequestURI())))
}

func (f *ExceptionFilter) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	f.Catch(w, r, NewHTTPError(http.StatusMethodNotAllowed, nil))
}
