package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-that-is-long-enough"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short", time.Hour); err == nil {
		t.Error("NewTokenService() should reject a secret under 16 characters")
	}
}

func TestNewTokenService_NonPositiveTTL(t *testing.T) {
	if _, err := NewTokenService(testSecret, 0); err == nil {
		t.Error("NewTokenService() should reject a zero TTL")
	}
	if _, err := NewTokenService(testSecret, -time.Minute); err == nil {
		t.Error("NewTokenService() should reject a negative TTL")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	tokens := newTestTokenService(t)

	signed, err := tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if signed == "" {
		t.Fatal("Generate() returned empty token")
	}

	username, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if username != "alice" {
		t.Errorf("Validate() username = %q, want %q", username, "alice")
	}
}

func TestValidate_Expired(t *testing.T) {
	tokens := newTestTokenService(t)

	signed, err := tokens.GenerateWithDuration("alice", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	_, err = tokens.Validate(signed)
	if err == nil {
		t.Fatal("Validate() should reject an expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("Validate() error = %v, want an expiry error", err)
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	tokens := newTestTokenService(t)
	other, err := NewTokenService("a-completely-different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	signed, err := tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := other.Validate(signed); err == nil {
		t.Error("Validate() should reject a token signed with a different secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	tokens := newTestTokenService(t)

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := tokens.Validate(input); err == nil {
			t.Errorf("Validate(%q) should fail", input)
		}
	}
}

func TestValidate_TamperedPayload(t *testing.T) {
	tokens := newTestTokenService(t)

	signed, err := tokens.Generate("alice")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Swap a character in the payload segment; the signature no longer matches.
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := tokens.Validate(tampered); err == nil {
		t.Error("Validate() should reject a tampered token")
	}
}
