package server

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-factcheck-chat/internal/errors"
	"github.com/jrsteele09/go-factcheck-chat/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores the verified session claims
const ContextKeyClaims ContextKey = "claims"

// RequireSession rejects requests without a valid session cookie with a
// generic 401. The reason is never disclosed.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := s.guard.Authenticate(r)
		if !ok {
			writeServiceError(w, r, apperrors.ErrUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the claims stored by RequireSession.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*token.Claims)
	return claims, ok && claims != nil
}
