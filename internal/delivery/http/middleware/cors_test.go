package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{"https://blitzweek.example.org/"}, next)

	tests := []struct {
		name            string
		method          string
		origin          string
		wantCode        int
		wantAllowOrigin string
	}{
		{
			name:            "preflight from allowed origin",
			method:          http.MethodOptions,
			origin:          "https://blitzweek.example.org",
			wantCode:        http.StatusNoContent,
			wantAllowOrigin: "https://blitzweek.example.org",
		},
		{
			name:     "preflight from unknown origin",
			method:   http.MethodOptions,
			origin:   "https://evil.example.org",
			wantCode: http.StatusNoContent,
		},
		{
			name:            "request from allowed origin",
			method:          http.MethodGet,
			origin:          "https://blitzweek.example.org",
			wantCode:        http.StatusOK,
			wantAllowOrigin: "https://blitzweek.example.org",
		},
		{
			name:     "request from unknown origin",
			method:   http.MethodGet,
			origin:   "https://evil.example.org",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/register", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Fatalf("expected Allow-Origin %q, got %q", tt.wantAllowOrigin, got)
			}
			if got := w.Header().Get("Vary"); got != "Origin" {
				t.Fatalf("expected Vary: Origin, got %q", got)
			}
			if tt.method == http.MethodOptions && tt.wantAllowOrigin != "" {
				methods := w.Header().Get("Access-Control-Allow-Methods")
				if strings.Contains(methods, "PATCH") {
					t.Fatalf("unexpected method in preflight: %q", methods)
				}
			}
		})
	}
}
