package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"click/infrastructure"
	"click/pkg/jwt"
)

type Middleware struct {
	tokens *jwt.JWT
}

func NewMiddleware(tokens *jwt.JWT) *Middleware {
	return &Middleware{tokens: tokens}
}

// Require validates the bearer token and injects the caller identity into
// the request context. Websocket clients can't always set headers, so a
// "token" query parameter is accepted as a fallback.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			infrastructure.WriteError(w, infrastructure.ErrMissingToken)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			infrastructure.WriteError(w, infrastructure.ErrInvalidToken)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			infrastructure.WriteError(w, infrastructure.ErrInvalidToken)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{UserID: userID, Username: claims.Username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}
