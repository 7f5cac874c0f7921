package security_test

import (
	"testing"

	"github.com/campuskit/membership-backend/pkg/security"
)

func TestGenerateInviteTokenLengthAndCharset(t *testing.T) {
	token, err := security.GenerateInviteToken(security.DefaultInviteTokenLength)
	if err != nil {
		t.Fatalf("GenerateInviteToken returned error: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64-character token, got %d", len(token))
	}
	for _, r := range token {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			t.Fatalf("unexpected character %q in token", r)
		}
	}
}

func TestGenerateInviteTokenRejectsBadLength(t *testing.T) {
	if _, err := security.GenerateInviteToken(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestGenerateInviteTokenVaries(t *testing.T) {
	a, err := security.GenerateInviteToken(security.DefaultInviteTokenLength)
	if err != nil {
		t.Fatalf("GenerateInviteToken returned error: %v", err)
	}
	b, err := security.GenerateInviteToken(security.DefaultInviteTokenLength)
	if err != nil {
		t.Fatalf("GenerateInviteToken returned error: %v", err)
	}
	if a == b {
		t.Fatal("two generated tokens should not collide")
	}
}
