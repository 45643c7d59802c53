package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows any origin outside production. In production no CORS headers
// are sent, so browsers only allow same-origin calls.
func CORS(production bool) func(http.Handler) http.Handler {
	if production {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
}
