package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireKey_NoKeysConfigured_PassesEverything(t *testing.T) {
	handler := RequireKey(NewAuthConfigWithKeys(nil))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("no keys configured: status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRequireKey_MissingKey_Rejected(t *testing.T) {
	handler := RequireKey(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireKey_WrongKey_Rejected(t *testing.T) {
	handler := RequireKey(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(APIKeyHeader, "wrong")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireKey_ValidKey_Passes(t *testing.T) {
	handler := RequireKey(NewAuthConfigWithKeys([]string{"first", "second"}))(okHandler())

	for _, key := range []string{"first", "second"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(APIKeyHeader, key)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("key %q: status = %d, want %d", key, w.Code, http.StatusOK)
		}
	}
}

func TestAuthConfig_Valid(t *testing.T) {
	config := NewAuthConfigWithKeys([]string{"secret"})

	if config.Valid("") {
		t.Error("empty key should never be valid")
	}
	if config.Valid("wrong") {
		t.Error("wrong key should not be valid")
	}
	if !config.Valid("secret") {
		t.Error("configured key should be valid")
	}
}

func TestRequireBatchSecret_EmptySecret_RejectsEverything(t *testing.T) {
	handler := RequireBatchSecret("")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(BatchSecretHeader, "")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("empty configured secret: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireBatchSecret_WrongSecret_Rejected(t *testing.T) {
	handler := RequireBatchSecret("cron-secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(BatchSecretHeader, "wrong")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRequireBatchSecret_ValidSecret_Passes(t *testing.T) {
	handler := RequireBatchSecret("cron-secret")(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(BatchSecretHeader, "cron-secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("valid secret: status = %d, want %d", w.Code, http.StatusOK)
	}
}
