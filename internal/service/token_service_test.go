package service

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("d_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.SessionID != "d_123" {
		t.Errorf("expected session d_123, got %q", claims.SessionID)
	}
	if err := svc.Authorize(token, "d_123"); err != nil {
		t.Errorf("expected authorized, got %v", err)
	}
	if err := svc.Authorize(token, "d_other"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for another session, got %v", err)
	}
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := NewTokenService("secret", time.Hour)
	token, err := issuer.Issue("d_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewTokenService("other", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	late := NewTokenService("secret", time.Hour)
	late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := late.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := issuer.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
	}
}
