package invitations

import (
	"fmt"
	"strings"
	"time"

	"github.com/campuskit/membership-backend/pkg/config"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/campuskit/membership-backend/pkg/security"
	"github.com/google/uuid"
)

// NewInvitationInput carries the caller-supplied fields for a fresh
// invitation. Token and expiry are optional and filled by the factory.
type NewInvitationInput struct {
	Email     string
	TeamID    uuid.UUID
	Role      enums.TeamRole
	InvitedBy uuid.UUID
	Token     string
	ExpiresAt *time.Time
}

// NewInvitation builds an unsaved invitation, generating the token and
// expiry when the caller left them blank. Defaults come from the
// invitation config section.
func NewInvitation(input NewInvitationInput, cfg config.InvitationConfig) (*models.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid invitee email %q", input.Email)
	}
	if !input.Role.IsValid() {
		return nil, fmt.Errorf("invalid team role %q", input.Role)
	}
	if input.TeamID == uuid.Nil {
		return nil, fmt.Errorf("team id is required")
	}
	if input.InvitedBy == uuid.Nil {
		return nil, fmt.Errorf("inviter id is required")
	}

	token := input.Token
	if token == "" {
		length := cfg.TokenLength
		if length <= 0 {
			length = security.DefaultInviteTokenLength
		}
		generated, err := security.GenerateInviteToken(length)
		if err != nil {
			return nil, fmt.Errorf("generate invite token: %w", err)
		}
		token = generated
	}

	expiresAt := time.Now().UTC().Add(cfg.DefaultTTL())
	if input.ExpiresAt != nil {
		expiresAt = input.ExpiresAt.UTC()
	}

	return &models.Invitation{
		ID:        uuid.New(),
		Email:     email,
		Token:     token,
		TeamID:    input.TeamID,
		Role:      input.Role,
		InvitedBy: input.InvitedBy,
		ExpiresAt: expiresAt,
	}, nil
}
