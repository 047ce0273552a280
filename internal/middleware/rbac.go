package middleware

import (
	"net/http"

	"ubuntu-connect/internal/models"
)

// RBACMiddleware gates routes on the caller's role and capability claims.
// Per-type authorization happens in the pipeline service against the
// access policy; these helpers only cover routes whose requirement is
// fixed, like the admin contribution endpoint and the stats screen.
type RBACMiddleware struct{}

// NewRBACMiddleware creates a new RBAC middleware
func NewRBACMiddleware() *RBACMiddleware {
	return &RBACMiddleware{}
}

// RequireAdmin admits only the admin role or the admin capability
func (m *RBACMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAnyCapability()(next)
}

// RequireAnyCapability admits callers holding at least one of the given
// capabilities. Admins always pass.
func (m *RBACMiddleware) RequireAnyCapability(capabilities ...models.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetUserID(r); !ok {
				respondWithError(w, http.StatusUnauthorized, "User not authenticated")
				return
			}

			if isAdmin(r) || holdsAny(GetUserCapabilities(r), capabilities) {
				next.ServeHTTP(w, r)
				return
			}

			respondWithError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

func isAdmin(r *http.Request) bool {
	if GetUserRole(r) == models.RoleAdmin {
		return true
	}
	return holdsAny(GetUserCapabilities(r), []models.Capability{models.CapAdmin})
}

func holdsAny(held, wanted []models.Capability) bool {
	for _, want := range wanted {
		for _, have := range held {
			if have == want {
				return true
			}
		}
	}
	return false
}
