// Package auth implements the optional bearer-token gate applied before any
// request is dispatched, plus derivation of the client identity used to key
// rate-limit buckets and annotate history records.
//
// The gate is deliberately minimal: a single shared credential configured at
// startup. When no credential is configured the gate is open and every
// request passes. This mirrors the deployment model of a small gateway that
// is either private (no token) or fronted by one shared secret.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Gate performs the bearer-token check. The zero value (no token) is an open
// gate. Construct once per process and share; Gate is immutable and safe for
// concurrent use.
type Gate struct {
	token string
}

// NewGate constructs a Gate expecting the given bearer token. An empty token
// disables the check entirely.
func NewGate(token string) *Gate {
	return &Gate{token: strings.TrimSpace(token)}
}

// Enabled reports whether a credential is configured.
func (g *Gate) Enabled() bool { return g.token != "" }

// Authorize reports whether the presented credential may proceed. With no
// configured token every credential (including none) passes. With a token
// configured, the credential must match exactly; comparison is constant-time.
func (g *Gate) Authorize(credential string) bool {
	if g.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(g.token)) == 1
}

// ParseBearer extracts the token from an Authorization header value.
// It returns ("", false) when the header is absent or not a Bearer scheme.
func ParseBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):]), true
	}
	return "", false
}

// Identity derives the rate-limit bucket key for a request: a short digest of
// the presented bearer token when one exists, otherwise the client IP. Keys
// are prefixed to avoid collisions between the two namespaces. The digest is
// informational (stored on history records) and never reversible to the
// credential.
func Identity(credential, clientIP string) string {
	if credential != "" {
		sum := sha256.Sum256([]byte(credential))
		return "token:" + hex.EncodeToString(sum[:8])
	}
	return "ip:" + clientIP
}
