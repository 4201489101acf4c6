package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundtrip(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager("test-secret", "vidvault", time.Hour)
	userID := uuid.New()

	raw, err := mgr.Issue(userID, "a@example.com", "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := mgr.Verify(raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "a@example.com" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
	if !claims.IsAdmin() {
		t.Fatal("IsAdmin() = false for admin role")
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := NewTokenManager("secret-a", "vidvault", time.Hour).Issue(uuid.New(), "a@example.com", "user")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewTokenManager("secret-b", "vidvault", time.Hour).Verify(raw); err == nil {
		t.Fatal("Verify() should reject a token signed with another secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager("test-secret", "vidvault", -time.Minute)
	raw, err := mgr.Issue(uuid.New(), "a@example.com", "user")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Verify(raw); err == nil {
		t.Fatal("Verify() should reject an expired token")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	mgr := NewTokenManager("test-secret", "vidvault", time.Hour)
	if _, err := mgr.Verify("not.a.token"); err == nil {
		t.Fatal("Verify() should reject garbage")
	}
}
