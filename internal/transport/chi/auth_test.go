package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddleware_EmptyKeys_PassThrough(t *testing.T) {
	mw := APIKeyMiddleware(nil)
	handler := mw(okHandler())

	req := httptest.NewRequest("POST", "/api/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("empty keys: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAPIKeyMiddleware_EmptyStringKeys_PassThrough(t *testing.T) {
	mw := APIKeyMiddleware([]string{"", ""})
	handler := mw(okHandler())

	req := httptest.NewRequest("POST", "/api/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("empty string keys: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAPIKeyMiddleware_MissingHeader_401(t *testing.T) {
	mw := APIKeyMiddleware([]string{"secret"})
	handler := mw(okHandler())

	req := httptest.NewRequest("POST", "/api/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing header: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "unauthorized" {
		t.Errorf("error code = %q", errResp.Code)
	}
}

func TestAPIKeyMiddleware_InvalidKey_401(t *testing.T) {
	mw := APIKeyMiddleware([]string{"secret"})
	handler := mw(okHandler())

	req := httptest.NewRequest("POST", "/api/v1/search", http.NoBody)
	req.Header.Set("x-api-key", "wrong")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid key: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAPIKeyMiddleware_ValidKey_200(t *testing.T) {
	mw := APIKeyMiddleware([]string{"secret", "other"})
	handler := mw(okHandler())

	req := httptest.NewRequest("POST", "/api/v1/search", http.NoBody)
	req.Header.Set("x-api-key", "other")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("valid key: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAPIKeyMiddleware_HealthExempt(t *testing.T) {
	mw := APIKeyMiddleware([]string{"secret"})
	handler := mw(okHandler())

	for _, path := range []string{"/health", "/api/v1/health", "/metrics", "/"} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}
