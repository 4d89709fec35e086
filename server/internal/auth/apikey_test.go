package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// okHandler always responds 200 "ok".
var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok")) //nolint:errcheck
})

func call(t *testing.T, h http.Handler, target, header, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if key != "" {
		req.Header.Set(header, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAPIKey_ModeNone_PassesThrough(t *testing.T) {
	h := APIKey("none", "X-Api-Key", "secret")(okHandler)
	if rr := call(t, h, "/", "X-Api-Key", ""); rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestAPIKey_EmptyKey_PassesThrough(t *testing.T) {
	h := APIKey("apikey", "X-Api-Key", "")(okHandler)
	if rr := call(t, h, "/", "X-Api-Key", ""); rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
}

func TestAPIKey(t *testing.T) {
	h := APIKey("apikey", "X-Api-Key", "secret")(okHandler)
	tests := []struct {
		name   string
		target string
		key    string
		want   int
	}{
		{"correct key", "/", "secret", http.StatusOK},
		{"wrong key", "/", "guess", http.StatusUnauthorized},
		{"missing key", "/", "", http.StatusUnauthorized},
		{"query parameter", "/ws/stream?api_key=secret", "", http.StatusOK},
		{"wrong query parameter", "/ws/stream?api_key=nope", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := call(t, h, tc.target, "X-Api-Key", tc.key)
			if rr.Code != tc.want {
				t.Errorf("status: got %d, want %d", rr.Code, tc.want)
			}
			if tc.want == http.StatusUnauthorized && rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type: got %q", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestAPIKey_CustomHeader(t *testing.T) {
	h := APIKey("apikey", "X-Line-Key", "secret")(okHandler)
	if rr := call(t, h, "/", "X-Line-Key", "secret"); rr.Code != http.StatusOK {
		t.Errorf("custom header: got %d, want 200", rr.Code)
	}
	if rr := call(t, h, "/", "X-Api-Key", "secret"); rr.Code != http.StatusUnauthorized {
		t.Errorf("default header with custom config: got %d, want 401", rr.Code)
	}
}
