package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyAuth(t *testing.T) {
	const key = "secret-key"

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetAPIKey(r.Context()); got != key {
			t.Errorf("context api key = %q, want %q", got, key)
		}
		w.WriteHeader(http.StatusOK)
	})
	handler := APIKeyAuth(key)(next)

	tests := []struct {
		name     string
		method   string
		key      string
		wantCode int
	}{
		{"valid key", http.MethodPost, key, http.StatusOK},
		{"missing key", http.MethodPost, "", http.StatusUnauthorized},
		{"wrong key", http.MethodPost, "wrong", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/honeypot/analyze", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestAPIKeyAuthSkipsPreflight(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := APIKeyAuth("secret-key")(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/honeypot/analyze", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("preflight request was blocked by auth")
	}
}
