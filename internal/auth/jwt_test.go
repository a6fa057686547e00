package auth

import (
	"testing"
	"time"
)

const testSecret = "my_test_jwt_secret"

func TestGenerateAndParseJWT(t *testing.T) {
	studentID := uint(42)
	username := "testuser"
	role := "student"
	exp := time.Hour

	tokenString, err := GenerateJWT(testSecret, studentID, username, role, exp)
	if err != nil {
		t.Fatalf("failed to generate JWT: %v", err)
	}
	if tokenString == "" {
		t.Fatalf("empty token string")
	}

	claims, err := ParseJWT(testSecret, tokenString)
	if err != nil {
		t.Fatalf("failed to parse JWT: %v", err)
	}
	if claims.StudentID != studentID {
		t.Errorf("expected studentId=%d, got %d", studentID, claims.StudentID)
	}
	if claims.Username != username {
		t.Errorf("expected username=%s, got %s", username, claims.Username)
	}
	if claims.Role != role {
		t.Errorf("expected role=%s, got %s", role, claims.Role)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		t.Errorf("token should not be expired, got expiresAt=%v", claims.ExpiresAt)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tokenString, err := GenerateJWT(testSecret, 1, "someone", "student", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate JWT: %v", err)
	}
	if _, err := ParseJWT("a_different_secret", tokenString); err == nil {
		t.Errorf("expected error when parsing with wrong secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	tokenString, err := GenerateJWT(testSecret, 1, "someone", "student", -time.Minute)
	if err != nil {
		t.Fatalf("failed to generate JWT: %v", err)
	}
	if _, err := ParseJWT(testSecret, tokenString); err == nil {
		t.Errorf("expected error for expired token")
	}
}

func TestParseJWT_Garbage(t *testing.T) {
	if _, err := ParseJWT(testSecret, "not.a.token"); err == nil {
		t.Errorf("expected error for garbage token")
	}
}
