package models

import (
	"time"

	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
)

// Invitation is a token-addressable, time-limited offer for an email
// address to join a team with a given role. Validity is computed from
// the stored timestamps, never persisted as a status flag.
type Invitation struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email      string         `gorm:"column:email;not null"`
	Token      string         `gorm:"column:token;size:64;not null;uniqueIndex"`
	TeamID     uuid.UUID      `gorm:"column:team_id;type:uuid;not null"`
	Role       enums.TeamRole `gorm:"column:role;type:team_role;not null"`
	InvitedBy  uuid.UUID      `gorm:"column:invited_by;type:uuid;not null"`
	ExpiresAt  time.Time      `gorm:"column:expires_at;not null"`
	AcceptedAt *time.Time     `gorm:"column:accepted_at"`
	AcceptedBy *uuid.UUID     `gorm:"column:accepted_by;type:uuid"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical table name.
func (Invitation) TableName() string {
	return "user_invitations"
}

// IsPending reports whether the invitation has not been accepted yet.
func (i *Invitation) IsPending() bool {
	return i.AcceptedAt == nil
}

// IsAccepted reports whether the invitation has been redeemed.
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// IsExpired reports whether the invitation lapsed at the given instant.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

// IsValid reports whether the invitation can still be accepted.
func (i *Invitation) IsValid(now time.Time) bool {
	return i.IsPending() && !i.IsExpired(now)
}
