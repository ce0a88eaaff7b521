package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{name: "allowed origin", allowed: []string{"https://app.example.com/"}, method: http.MethodGet, origin: "https://app.example.com", wantOrigin: "https://app.example.com", wantStatus: http.StatusOK},
		{name: "unknown origin", allowed: []string{"https://app.example.com"}, method: http.MethodGet, origin: "https://evil.example.com", wantOrigin: "", wantStatus: http.StatusOK},
		{name: "wildcard echoes origin", allowed: []string{"*"}, method: http.MethodGet, origin: "https://any.example.com", wantOrigin: "https://any.example.com", wantStatus: http.StatusOK},
		{name: "preflight allowed", allowed: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://app.example.com", wantOrigin: "https://app.example.com", wantStatus: http.StatusNoContent},
		{name: "preflight unknown", allowed: []string{"https://app.example.com"}, method: http.MethodOptions, origin: "https://evil.example.com", wantOrigin: "", wantStatus: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				_, _ = w.Write([]byte("{}"))
			})
			req := httptest.NewRequest(tt.method, "http://test/sessions/s-1", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.method != http.MethodOptions, nextCalled)
			if tt.method == http.MethodOptions && tt.wantOrigin != "" {
				assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}
