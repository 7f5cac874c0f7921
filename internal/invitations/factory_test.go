package invitations

import (
	"strings"
	"testing"
	"time"

	"github.com/campuskit/membership-backend/pkg/config"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
)

func factoryConfig() config.InvitationConfig {
	return config.InvitationConfig{TokenLength: 64, DefaultTTLDays: 7}
}

func TestNewInvitationFillsTokenAndExpiry(t *testing.T) {
	before := time.Now().UTC()
	invitation, err := NewInvitation(NewInvitationInput{
		Email:     "Jordan@Example.EDU",
		TeamID:    uuid.New(),
		Role:      enums.TeamRoleMember,
		InvitedBy: uuid.New(),
	}, factoryConfig())
	if err != nil {
		t.Fatalf("new invitation: %v", err)
	}

	if invitation.Email != "jordan@example.edu" {
		t.Fatalf("expected lowercased email, got %q", invitation.Email)
	}
	if len(invitation.Token) != 64 {
		t.Fatalf("expected 64-char token, got %d chars", len(invitation.Token))
	}
	for _, r := range invitation.Token {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", r) {
			t.Fatalf("unexpected token character %q", r)
		}
	}

	want := before.Add(7 * 24 * time.Hour)
	if invitation.ExpiresAt.Before(want.Add(-time.Minute)) || invitation.ExpiresAt.After(want.Add(time.Minute)) {
		t.Fatalf("expected expiry about seven days out, got %v", invitation.ExpiresAt)
	}
	if invitation.AcceptedAt != nil || invitation.AcceptedBy != nil {
		t.Fatal("fresh invitation must not carry acceptance stamps")
	}
	if !invitation.IsValid(time.Now().UTC()) {
		t.Fatal("fresh invitation must be valid")
	}
}

func TestNewInvitationHonorsOverrides(t *testing.T) {
	expires := time.Now().UTC().Add(48 * time.Hour)
	invitation, err := NewInvitation(NewInvitationInput{
		Email:     "a@b.edu",
		TeamID:    uuid.New(),
		Role:      enums.TeamRoleAdmin,
		InvitedBy: uuid.New(),
		Token:     "fixed-token",
		ExpiresAt: &expires,
	}, factoryConfig())
	if err != nil {
		t.Fatalf("new invitation: %v", err)
	}
	if invitation.Token != "fixed-token" {
		t.Fatalf("expected caller token kept, got %q", invitation.Token)
	}
	if !invitation.ExpiresAt.Equal(expires) {
		t.Fatalf("expected caller expiry kept, got %v", invitation.ExpiresAt)
	}
}

func TestNewInvitationRejectsBadInput(t *testing.T) {
	base := NewInvitationInput{
		Email:     "a@b.edu",
		TeamID:    uuid.New(),
		Role:      enums.TeamRoleMember,
		InvitedBy: uuid.New(),
	}

	bad := base
	bad.Email = "not-an-email"
	if _, err := NewInvitation(bad, factoryConfig()); err == nil {
		t.Fatal("expected error for bad email")
	}

	bad = base
	bad.Role = enums.TeamRole("owner")
	if _, err := NewInvitation(bad, factoryConfig()); err == nil {
		t.Fatal("expected error for unknown role")
	}

	bad = base
	bad.TeamID = uuid.Nil
	if _, err := NewInvitation(bad, factoryConfig()); err == nil {
		t.Fatal("expected error for missing team")
	}

	bad = base
	bad.InvitedBy = uuid.Nil
	if _, err := NewInvitation(bad, factoryConfig()); err == nil {
		t.Fatal("expected error for missing inviter")
	}
}

func TestNewInvitationUsesConfiguredLength(t *testing.T) {
	cfg := config.InvitationConfig{TokenLength: 32, DefaultTTLDays: 1}
	invitation, err := NewInvitation(NewInvitationInput{
		Email:     "a@b.edu",
		TeamID:    uuid.New(),
		Role:      enums.TeamRoleMember,
		InvitedBy: uuid.New(),
	}, cfg)
	if err != nil {
		t.Fatalf("new invitation: %v", err)
	}
	if len(invitation.Token) != 32 {
		t.Fatalf("expected 32-char token, got %d", len(invitation.Token))
	}
}
