package middleware

import (
	"context"
	"net/http"
	"strings"

	"ubuntu-connect/internal/auth"
	"ubuntu-connect/internal/models"
)

type contextKey string

const (
	UserIDKey           contextKey = "user_id"
	UserEmailKey        contextKey = "user_email"
	UserRoleKey         contextKey = "user_role"
	UserCapabilitiesKey contextKey = "user_capabilities"
)

// AuthMiddleware validates bearer tokens from the identity provider
type AuthMiddleware struct {
	authService *auth.Service
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates the JWT token and adds the caller's identity,
// role and capabilities to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.authService.ValidateToken(parts[1])
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
		ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
		ctx = context.WithValue(ctx, UserCapabilitiesKey, parseCapabilities(claims.Capabilities))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseCapabilities converts the raw claim tags into the closed capability
// set, dropping tags this service does not know.
func parseCapabilities(raw []string) []models.Capability {
	capabilities := make([]models.Capability, 0, len(raw))
	for _, tag := range raw {
		capability := models.Capability(tag)
		if capability.Valid() {
			capabilities = append(capabilities, capability)
		}
	}
	return capabilities
}

// GetUserID retrieves the user ID from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserRole retrieves the caller's role from the request context
func GetUserRole(r *http.Request) string {
	role, _ := r.Context().Value(UserRoleKey).(string)
	return role
}

// GetUserCapabilities retrieves the caller's capability set from the
// request context.
func GetUserCapabilities(r *http.Request) []models.Capability {
	capabilities, _ := r.Context().Value(UserCapabilitiesKey).([]models.Capability)
	return capabilities
}

// Helper function to respond with JSON error
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
