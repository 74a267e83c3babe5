package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"click/pkg/jwt"
)

func TestMiddleware_Require(t *testing.T) {
	tokens := jwt.NewJWT("test-secret", 3600)
	m := NewMiddleware(tokens)
	userID := uuid.New()

	var seen Identity
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, called = mustIdentity(t, r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid bearer header passes through", func(t *testing.T) {
		req := require.New(t)
		called = false

		token, err := tokens.GenerateToken(userID, "alice")
		req.NoError(err)

		r := httptest.NewRequest(http.MethodGet, "/users/list/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		m.Require(next).ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
		req.True(called)
		req.Equal(userID, seen.UserID)
		req.Equal("alice", seen.Username)
	})

	t.Run("token query parameter works for websocket clients", func(t *testing.T) {
		req := require.New(t)
		called = false

		token, err := tokens.GenerateToken(userID, "alice")
		req.NoError(err)

		r := httptest.NewRequest(http.MethodGet, "/ws/lobby?token="+token, nil)
		w := httptest.NewRecorder()
		m.Require(next).ServeHTTP(w, r)

		req.Equal(http.StatusOK, w.Code)
		req.True(called)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		req := require.New(t)
		called = false

		r := httptest.NewRequest(http.MethodGet, "/users/list/", nil)
		w := httptest.NewRecorder()
		m.Require(next).ServeHTTP(w, r)

		req.Equal(http.StatusUnauthorized, w.Code)
		req.False(called)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		req := require.New(t)
		called = false

		token, err := jwt.NewJWT("other-secret", 3600).GenerateToken(userID, "alice")
		req.NoError(err)

		r := httptest.NewRequest(http.MethodGet, "/users/list/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		m.Require(next).ServeHTTP(w, r)

		req.Equal(http.StatusUnauthorized, w.Code)
		req.False(called)
	})
}

func mustIdentity(t *testing.T, r *http.Request) (Identity, bool) {
	t.Helper()
	id, ok := IdentityFrom(r.Context())
	require.True(t, ok)
	return id, true
}

func TestIdentityFrom_AbsentContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFrom(r.Context())
	require.False(t, ok)
}
