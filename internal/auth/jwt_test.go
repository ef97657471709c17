package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	uid, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if uid != "u1" {
		t.Errorf("subject = %q, want %q", uid, "u1")
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Validate(token); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestTokenExpired(t *testing.T) {
	// The constructor replaces non-positive TTLs with the default, so build
	// the backdated manager directly.
	m := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := m.Generate("u1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := m.Validate(token); err == nil {
		t.Error("expired token must be rejected")
	}
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.Validate(tok); err == nil {
			t.Errorf("Validate(%q) should fail", tok)
		}
	}
}
