package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"randevu-api/internal/auth"
)

func TestTokenRoundtrip(t *testing.T) {
	tok, err := auth.MakeToken("test-uid", "secret")
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	claims, err := auth.ParseToken(tok, "secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != "test-uid" {
		t.Errorf("uid mismatch: %s", claims.UserID)
	}

	// verify expiry matches the configured TTL
	diff := time.Until(claims.ExpiresAt.Time)
	if diff < auth.AccessTokenTTL-time.Minute || diff > auth.AccessTokenTTL+time.Minute {
		t.Errorf("expected ~%v expiry, got %v", auth.AccessTokenTTL, diff)
	}
}

func TestTokenRejection(t *testing.T) {
	tok, _ := auth.MakeToken("uid", "secret")

	// wrong secret fails
	if _, err := auth.ParseToken(tok, "wrong-secret"); !errors.Is(err, auth.ErrBadToken) {
		t.Fatalf("expected ErrBadToken for wrong secret, got %v", err)
	}

	// garbage token fails
	if _, err := auth.ParseToken("not.a.token", "secret"); !errors.Is(err, auth.ErrBadToken) {
		t.Fatalf("expected ErrBadToken for garbage token, got %v", err)
	}

	// an unsigned token never reaches the key, whatever its claims say
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		UserID: "uid",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build unsigned token: %v", err)
	}
	if _, err := auth.ParseToken(unsigned, "secret"); !errors.Is(err, auth.ErrBadToken) {
		t.Fatalf("expected ErrBadToken for unsigned token, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword(hash, "testpass123") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrongpass") {
		t.Error("wrong password accepted")
	}
}

func TestRefreshTokenGeneration(t *testing.T) {
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(raw) != 64 { // 32 bytes hex = 64 chars
		t.Errorf("expected 64 char raw token, got %d", len(raw))
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}
	if auth.HashRefreshToken(raw) != hash {
		t.Error("hash mismatch")
	}
}
