package middleware

import (
	"crypto/subtle"
	"net/http"
)

// Header names checked by the auth middleware.
const (
	APIKeyHeader      = "X-API-KEY"
	BatchSecretHeader = "X-Batch-Secret"
)

// AuthConfig holds the keys accepted by the admin surface.
type AuthConfig struct {
	keys []string
}

// NewAuthConfigWithKeys creates an AuthConfig accepting the given keys.
func NewAuthConfigWithKeys(keys []string) AuthConfig {
	return AuthConfig{keys: keys}
}

// Enabled reports whether any keys are configured. With no keys the admin
// surface is open, which is only appropriate for local development.
func (c AuthConfig) Enabled() bool { return len(c.keys) > 0 }

// Valid reports whether the presented key matches a configured one.
func (c AuthConfig) Valid(key string) bool {
	if key == "" {
		return false
	}
	for _, k := range c.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// RequireKey protects every method of a route group with the X-API-KEY
// header. With no keys configured the middleware passes everything.
func RequireKey(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Enabled() && !config.Valid(r.Header.Get(APIKeyHeader)) {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid or missing API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireBatchSecret protects the batch endpoints with the shared secret
// the external scheduler presents. An empty configured secret rejects
// everything: batch endpoints never run open.
func RequireBatchSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(BatchSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) != 1 {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid or missing batch secret"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
