package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Middleware guards routes behind bearer-token authentication and
// role checks.
type Middleware struct {
	tokens *TokenIssuer
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(tokens *TokenIssuer) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate verifies the Authorization header and stores the principal
// in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Message(w, http.StatusUnauthorized, ErrTokenMissing.Error())
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			httpx.Message(w, http.StatusUnauthorized, ErrTokenInvalid.Error())
			return
		}
		principal, err := m.tokens.Verify(tokenString)
		if err != nil {
			httpx.Message(w, http.StatusUnauthorized, ErrTokenInvalid.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireRole authenticates the request and rejects principals of the
// wrong kind.
func (m *Middleware) RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.Message(w, http.StatusUnauthorized, ErrTokenMissing.Error())
				return
			}
			if principal.Role != role {
				httpx.Message(w, http.StatusForbidden, fmt.Sprintf("this action requires the %s role", role))
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
