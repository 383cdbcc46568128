// Package auth gates HTTP handlers behind a static bearer token.
package auth

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"talib-mcp-server/internal/logger"
)

// ErrEmptySecret is returned when the gate is built without a secret.
var ErrEmptySecret = errors.New("auth: empty bearer secret")

// Reject reasons passed to the OnReject hook.
const (
	ReasonMissing  = "missing"
	ReasonScheme   = "scheme"
	ReasonMismatch = "mismatch"
)

var unauthorizedBody = []byte(`{"error":"Unauthorized"}` + "\n")

// Bearer compares the Authorization header against a shared secret.
type Bearer struct {
	secret   []byte
	onReject func(reason string)
}

// Option configures a Bearer.
type Option func(*Bearer)

// WithRejectHook registers fn to run on every rejected request.
func WithRejectHook(fn func(reason string)) Option {
	return func(b *Bearer) { b.onReject = fn }
}

// NewBearer builds a gate for secret. An empty secret is an error: there is
// no accept-anything mode.
func NewBearer(secret string, opts ...Option) (*Bearer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	b := &Bearer{secret: []byte(secret)}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Check reports whether header carries the configured token. On failure it
// returns the reject reason.
func (b *Bearer) Check(header string) (bool, string) {
	if header == "" {
		return false, ReasonMissing
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false, ReasonScheme
	}
	token = strings.TrimSpace(token)
	if subtle.ConstantTimeCompare([]byte(token), b.secret) != 1 {
		return false, ReasonMismatch
	}
	return true, ""
}

// Middleware rejects unauthenticated requests with 401 before next runs.
func (b *Bearer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, reason := b.Check(r.Header.Get("Authorization"))
		if !ok {
			if b.onReject != nil {
				b.onReject(reason)
			}
			slog.Warn("auth rejected",
				append(logger.LogWithTrace(r.Context()),
					slog.String("reason", reason),
					slog.String("path", r.URL.Path),
				)...)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="talib-mcp-server"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write(unauthorizedBody)
			return
		}
		next.ServeHTTP(w, r)
	})
}
