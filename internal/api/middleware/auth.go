package middleware

import (
	"context"
	"net/http"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyAPIKey is the context key for the validated API key.
const ContextKeyAPIKey ContextKey = "api_key"

// APIKeyHeader carries the caller's key; the name is fixed by the
// external platform that posts scammer messages to this service.
const APIKeyHeader = "x-api-key"

// APIKeyAuth returns middleware that validates the x-api-key header
// against the configured key.
func APIKeyAuth(apiKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip auth for OPTIONS requests (CORS preflight)
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(APIKeyHeader)
			if key == "" || key != apiKey {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"status":"error","message":"Unauthorized - Invalid or missing API key"}`))
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey returns the API key from context.
func GetAPIKey(ctx context.Context) string {
	if key, ok := ctx.Value(ContextKeyAPIKey).(string); ok {
		return key
	}
	return ""
}
