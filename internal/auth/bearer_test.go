package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBearer_EmptySecret(t *testing.T) {
	_, err := NewBearer("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestBearer_Check(t *testing.T) {
	b, err := NewBearer("testtoken")
	require.NoError(t, err)

	cases := []struct {
		header string
		ok     bool
		reason string
	}{
		{"Bearer testtoken", true, ""},
		{"bearer testtoken", true, ""},
		{"Bearer  testtoken ", true, ""},
		{"", false, ReasonMissing},
		{"testtoken", false, ReasonScheme},
		{"Basic dGVzdA==", false, ReasonScheme},
		{"Bearer wrongtoken", false, ReasonMismatch},
		{"Bearer ", false, ReasonMismatch},
		{"Bearer testtoken2", false, ReasonMismatch},
	}
	for _, tc := range cases {
		ok, reason := b.Check(tc.header)
		assert.Equal(t, tc.ok, ok, "header %q", tc.header)
		assert.Equal(t, tc.reason, reason, "header %q", tc.header)
	}
}

func TestMiddleware_RejectsWithoutCallingNext(t *testing.T) {
	var reasons []string
	b, err := NewBearer("testtoken", WithRejectHook(func(r string) { reasons = append(reasons, r) }))
	require.NoError(t, err)

	called := 0
	h := b.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
	}))

	for _, header := range []string{"", "Bearer wrongtoken"} {
		req := httptest.NewRequest(http.MethodPost, "/call", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
	}
	assert.Equal(t, 0, called)
	assert.Equal(t, []string{ReasonMissing, ReasonMismatch}, reasons)
}

func TestMiddleware_PassesThroughUnmodified(t *testing.T) {
	b, err := NewBearer("testtoken")
	require.NoError(t, err)

	var seen *http.Request
	h := b.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/tools?x=1", nil)
	req.Header.Set("Authorization", "Bearer testtoken")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	require.NotNil(t, seen)
	assert.Same(t, req, seen)
	assert.Equal(t, "Bearer testtoken", seen.Header.Get("Authorization"))
}
