package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func authProtected(t *testing.T, keys ...string) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return BearerAuthMiddleware(keys)(next)
}

func TestBearerAuth(t *testing.T) {
	handler := authProtected(t, "secret", "backup")

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/v1/corpora", "", http.StatusUnauthorized},
		{"wrong scheme", "/v1/corpora", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"unknown key", "/v1/corpora", "Bearer wrong", http.StatusUnauthorized},
		{"first key", "/v1/corpora", "Bearer secret", http.StatusNoContent},
		{"second key", "/v1/corpora", "Bearer backup", http.StatusNoContent},
		{"health open", "/health", "", http.StatusNoContent},
		{"metrics open", "/metrics", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestBearerAuth_NoKeysDisablesAuth(t *testing.T) {
	// Blank entries must not count as configured keys.
	for _, keys := range [][]string{nil, {""}, {"", ""}} {
		handler := authProtected(t, keys...)

		req := httptest.NewRequest(http.MethodGet, "/v1/corpora", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Errorf("keys %q: got %d, want pass-through", keys, rr.Code)
		}
	}
}

func TestBearerAuth_RejectionEnvelope(t *testing.T) {
	handler := authProtected(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/corpora", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Status != statusError {
		t.Errorf("status: got %q, want %q", resp.Status, statusError)
	}
	if resp.ErrorMessage == "" {
		t.Error("expected error_message to be set")
	}
}
