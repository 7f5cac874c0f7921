package memberships

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
)

// MembershipDTO is the transport shape for a raw membership record.
type MembershipDTO struct {
	ID          uuid.UUID              `json:"id"`
	TeamID      uuid.UUID              `json:"team_id"`
	UserID      uuid.UUID              `json:"user_id"`
	Role        enums.TeamRole         `json:"role"`
	Status      enums.MembershipStatus `json:"status"`
	JoinedAt    *time.Time             `json:"joined_at,omitempty"`
	ApprovedAt  *time.Time             `json:"approved_at,omitempty"`
	ApprovedBy  *uuid.UUID             `json:"approved_by,omitempty"`
	Permissions map[string]any         `json:"permissions,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// MembershipWithTeam includes basic team metadata + membership info.
type MembershipWithTeam struct {
	MembershipID uuid.UUID              `json:"membership_id"`
	TeamID       uuid.UUID              `json:"team_id"`
	UserID       uuid.UUID              `json:"user_id"`
	TeamName     string                 `json:"team_name"`
	TeamSlug     string                 `json:"team_slug"`
	Role         enums.TeamRole         `json:"role"`
	Status       enums.MembershipStatus `json:"status"`
	ApprovedBy   *uuid.UUID             `json:"approved_by,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// TeamMemberDTO mixes membership metadata with the associated user
// profile for team administrators.
type TeamMemberDTO struct {
	MembershipID uuid.UUID              `json:"membership_id"`
	TeamID       uuid.UUID              `json:"team_id"`
	UserID       uuid.UUID              `json:"user_id"`
	Email        string                 `json:"email"`
	FirstName    *string                `json:"first_name,omitempty"`
	LastName     *string                `json:"last_name,omitempty"`
	Role         enums.TeamRole         `json:"role"`
	Status       enums.MembershipStatus `json:"membership_status"`
	JoinedAt     *time.Time             `json:"joined_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	LastLoginAt  *time.Time             `json:"last_login_at,omitempty"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.Membership) *MembershipDTO {
	if m == nil {
		return nil
	}

	return &MembershipDTO{
		ID:          m.ID,
		TeamID:      m.TeamID,
		UserID:      m.UserID,
		Role:        m.Role,
		Status:      m.Status,
		JoinedAt:    copyTimePointer(m.JoinedAt),
		ApprovedAt:  copyTimePointer(m.ApprovedAt),
		ApprovedBy:  copyUUIDPointer(m.ApprovedBy),
		Permissions: m.Permissions,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}

func copyTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
