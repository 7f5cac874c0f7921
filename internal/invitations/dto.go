package invitations

import (
	"time"

	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
)

// InvitationDTO is the transport shape for an invitation. The validity
// flags are computed against the time of mapping.
type InvitationDTO struct {
	ID         uuid.UUID      `json:"id"`
	Email      string         `json:"email"`
	Token      string         `json:"token"`
	TeamID     uuid.UUID      `json:"team_id"`
	Role       enums.TeamRole `json:"role"`
	InvitedBy  uuid.UUID      `json:"invited_by"`
	ExpiresAt  time.Time      `json:"expires_at"`
	AcceptedAt *time.Time     `json:"accepted_at,omitempty"`
	AcceptedBy *uuid.UUID     `json:"accepted_by,omitempty"`
	IsExpired  bool           `json:"is_expired"`
	IsValid    bool           `json:"is_valid"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// FromModel maps the persisted invitation into a DTO.
func FromModel(m *models.Invitation) *InvitationDTO {
	if m == nil {
		return nil
	}

	now := time.Now().UTC()
	dto := &InvitationDTO{
		ID:        m.ID,
		Email:     m.Email,
		Token:     m.Token,
		TeamID:    m.TeamID,
		Role:      m.Role,
		InvitedBy: m.InvitedBy,
		ExpiresAt: m.ExpiresAt,
		IsExpired: m.IsExpired(now),
		IsValid:   m.IsValid(now),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.AcceptedAt != nil {
		cpy := *m.AcceptedAt
		dto.AcceptedAt = &cpy
	}
	if m.AcceptedBy != nil {
		cpy := *m.AcceptedBy
		dto.AcceptedBy = &cpy
	}
	return dto
}
