// Package token issues the opaque single-use response tokens embedded in
// outbound emails. The token itself is the credential, so it must be
// unguessable; it is cleared from storage the moment a response is recorded.
package token

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Issue generates a fresh opaque token valid for ttlDays from now.
func Issue(now time.Time, ttlDays int) (string, time.Time) {
	raw := uuid.NewString() + uuid.NewString()
	return strings.ReplaceAll(raw, "-", ""), now.AddDate(0, 0, ttlDays)
}

// Expired reports whether a token with the given expiry has lapsed at now.
// An empty token is always expired: it was either never issued or already
// consumed.
func Expired(tok string, expiry, now time.Time) bool {
	return tok == "" || now.After(expiry)
}
