package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"ubuntu-connect/internal/models"
)

func requestWithClaims(userID, role string, capabilities []models.Capability) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/contributions", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	ctx = context.WithValue(ctx, UserCapabilitiesKey, capabilities)
	return req.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdmin(t *testing.T) {
	mw := NewRBACMiddleware()
	handler := mw.RequireAdmin(okHandler())

	tests := []struct {
		name         string
		userID       string
		role         string
		capabilities []models.Capability
		wantStatus   int
	}{
		{"admin role passes", "user-1", models.RoleAdmin, nil, http.StatusOK},
		{"admin capability passes", "user-1", "user", []models.Capability{models.CapAdmin}, http.StatusOK},
		{"moderator is forbidden", "user-1", "user", []models.Capability{models.CapModerator}, http.StatusForbidden},
		{"no claims is forbidden", "user-1", "user", nil, http.StatusForbidden},
		{"unauthenticated", "", "", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithClaims(tt.userID, tt.role, tt.capabilities))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireAnyCapability(t *testing.T) {
	mw := NewRBACMiddleware()
	handler := mw.RequireAnyCapability(models.CapReviewer, models.CapBusinessReviewer)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithClaims("user-1", "user", []models.Capability{models.CapBusinessReviewer}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithClaims("user-1", "user", []models.Capability{models.CapModerator}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithClaims("user-1", models.RoleAdmin, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
