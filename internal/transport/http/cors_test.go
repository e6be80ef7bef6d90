package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func teapot() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		origins     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllowed string
	}{
		{
			name:        "preflight allowed",
			origins:     []string{"http://localhost:5173"},
			method:      http.MethodOptions,
			origin:      "http://localhost:5173",
			preflight:   true,
			wantStatus:  http.StatusNoContent,
			wantAllowed: "http://localhost:5173",
		},
		{
			name:       "preflight forbidden",
			origins:    []string{"http://localhost:5173"},
			method:     http.MethodOptions,
			origin:     "http://evil.local",
			preflight:  true,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "plain request from unknown origin passes through",
			origins:    []string{"http://localhost:5173"},
			method:     http.MethodGet,
			origin:     "http://evil.local",
			wantStatus: http.StatusTeapot,
		},
		{
			name:        "wildcard",
			origins:     []string{" * "},
			method:      http.MethodPost,
			origin:      "http://anywhere.local",
			wantStatus:  http.StatusTeapot,
			wantAllowed: "*",
		},
		{
			name:       "no origin header",
			origins:    nil,
			method:     http.MethodGet,
			wantStatus: http.StatusTeapot,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tt.method, "/raffle", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			CORS(tt.origins, teapot()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowed {
				t.Fatalf("expected allow origin %q, got %q", tt.wantAllowed, got)
			}
		})
	}
}
