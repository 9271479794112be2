package token

import (
	"testing"
	"time"

	"github.com/accountsvc/user-service/internal/core/domain"
)

func testCodec() *Codec {
	return NewCodec("test-secret", "my-sequelize-app", "app-users", time.Hour, 2*time.Hour)
}

func TestCodec_GenerateAndVerify(t *testing.T) {
	c := testCodec()

	signed, err := c.Generate(42, "alice@example.com", "Alice", true)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected token, got empty")
	}

	claims, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected userId 42, got %d", claims.UserID)
	}
	if claims.Email != "alice@example.com" || claims.Name != "Alice" {
		t.Fatalf("unexpected identity claims: %+v", claims)
	}
	if !claims.IsActive {
		t.Fatalf("expected isActive true")
	}
	if claims.Issuer != "my-sequelize-app" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestCodec_RefreshTokenVerifies(t *testing.T) {
	c := testCodec()

	signed, err := c.GenerateRefresh(7, "bob@example.com", "Bob", true)
	if err != nil {
		t.Fatalf("GenerateRefresh returned error: %v", err)
	}
	claims, err := c.Verify(signed)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected userId 7, got %d", claims.UserID)
	}
}

func TestCodec_VerifyExpired(t *testing.T) {
	c := testCodec()
	// Non-positive TTLs fall back to defaults in NewCodec, so force an
	// already-expired lifetime directly.
	c.accessTTL = -time.Minute

	signed, err := c.Generate(1, "x@example.com", "X", true)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := c.Verify(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestCodec_VerifyWrongSecret(t *testing.T) {
	signed, err := testCodec().Generate(1, "x@example.com", "X", true)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	other := NewCodec("different-secret", "my-sequelize-app", "app-users", time.Hour, time.Hour)
	if _, err := other.Verify(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestCodec_VerifyWrongIssuer(t *testing.T) {
	impostor := NewCodec("test-secret", "another-app", "app-users", time.Hour, time.Hour)
	signed, err := impostor.Generate(1, "x@example.com", "X", true)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := testCodec().Verify(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestCodec_VerifyWrongAudience(t *testing.T) {
	impostor := NewCodec("test-secret", "my-sequelize-app", "other-users", time.Hour, time.Hour)
	signed, err := impostor.Generate(1, "x@example.com", "X", true)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := testCodec().Verify(signed); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong audience, got %v", err)
	}
}

func TestCodec_VerifyGarbage(t *testing.T) {
	if _, err := testCodec().Verify("not.a.token"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractFromHeader(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"", "", false},
		{"abc.def.ghi", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"bearer abc.def.ghi", "", false},
		{"Token abc.def.ghi", "", false},
		{"Bearer abc def", "", false},
	}
	for _, tc := range cases {
		token, ok := ExtractFromHeader(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Errorf("ExtractFromHeader(%q) = (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
