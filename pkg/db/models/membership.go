package models

import (
	"time"

	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
)

// Membership links a user with a team and captures their role, status
// and approval metadata. One row per (team, user) pair.
type Membership struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID      uuid.UUID              `gorm:"column:team_id;type:uuid;not null;uniqueIndex:uq_team_user"`
	UserID      uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_team_user"`
	Role        enums.TeamRole         `gorm:"column:role;type:team_role;not null;default:'member'"`
	Status      enums.MembershipStatus `gorm:"column:status;type:membership_status;not null;default:'pending'"`
	JoinedAt    *time.Time             `gorm:"column:joined_at"`
	ApprovedAt  *time.Time             `gorm:"column:approved_at"`
	ApprovedBy  *uuid.UUID             `gorm:"column:approved_by;type:uuid"`
	Permissions dbtypes.JSONMap        `gorm:"column:permissions;type:jsonb"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical pivot table name.
func (Membership) TableName() string {
	return "team_user"
}

// IsActive reports whether the membership is currently active.
func (m *Membership) IsActive() bool {
	return m.Status == enums.MembershipStatusActive
}

// IsPending reports whether the membership awaits approval.
func (m *Membership) IsPending() bool {
	return m.Status == enums.MembershipStatusPending
}

// IsSuspended reports whether the membership has been suspended.
func (m *Membership) IsSuspended() bool {
	return m.Status == enums.MembershipStatusSuspended
}

// HasPermission reads a single per-member override flag. Missing keys
// and non-boolean values read as false.
func (m *Membership) HasPermission(permission string) bool {
	if m.Permissions == nil {
		return false
	}
	value, ok := m.Permissions[permission].(bool)
	return ok && value
}
