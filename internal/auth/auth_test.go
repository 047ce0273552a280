package auth

import (
	"testing"
	"time"

	"ubuntu-connect/internal/config"
)

func testService() *Service {
	return NewService(&config.JWTConfig{Secret: "test-secret"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService()

	token, err := svc.GenerateToken(
		"a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d",
		"moderator@example.com",
		"user",
		[]string{"moderator", "listing_moderator"},
		time.Hour,
	)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Error("Token should not be empty")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.UserID != "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d" {
		t.Errorf("Unexpected user ID: %s", claims.UserID)
	}
	if claims.Role != "user" {
		t.Errorf("Unexpected role: %s", claims.Role)
	}
	if len(claims.Capabilities) != 2 {
		t.Errorf("Expected 2 capabilities, got %d", len(claims.Capabilities))
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testService()

	token, err := svc.GenerateToken("user-1", "x@example.com", "user", nil, -time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	_, err = svc.ValidateToken(token)
	if err != ErrExpiredToken {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := testService()
	other := NewService(&config.JWTConfig{Secret: "another-secret"})

	token, err := other.GenerateToken("user-1", "x@example.com", "user", nil, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	_, err = svc.ValidateToken(token)
	if err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := testService()

	_, err := svc.ValidateToken("not-a-token")
	if err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenMissingUserID(t *testing.T) {
	svc := testService()

	token, err := svc.GenerateToken("", "x@example.com", "user", nil, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	_, err = svc.ValidateToken(token)
	if err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
