package middleware

import (
	"context"
	"net/http"

	"github.com/mdiaw/comptabook/internal/api/response"
)

// GetIdentity extracts the APIKeyIdentity from the request context.
func GetIdentity(ctx context.Context) *APIKeyIdentity {
	identity, _ := ctx.Value(APIKeyIdentityKey).(*APIKeyIdentity)
	return identity
}

// HasScope checks if the identity carries the given scope (or the * wildcard).
func HasScope(identity *APIKeyIdentity, scope string) bool {
	if identity == nil {
		return false
	}
	for _, s := range identity.Scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

// RequireScope returns middleware that checks the key has the given scope.
// Lifecycle decisions (approve, validate, confirm deletion) sit behind the
// admin scope.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if !HasScope(identity, scope) {
				response.WriteError(w, http.StatusForbidden, "insufficient scope: requires "+scope)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
