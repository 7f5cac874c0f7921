package models

import (
	"time"

	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          *string         `gorm:"column:name"`
	FirstName     *string         `gorm:"column:first_name"`
	LastName      *string         `gorm:"column:last_name"`
	Email         string          `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string          `gorm:"column:password_hash;not null" json:"-"`
	StudentID     *string         `gorm:"column:student_id;uniqueIndex"`
	GlobalRole    enums.UserRole  `gorm:"column:global_role;type:user_role;not null;default:'student'"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt   *time.Time      `gorm:"column:last_login_at"`
	Preferences   dbtypes.JSONMap `gorm:"column:preferences;type:jsonb"`
	CurrentTeamID *uuid.UUID      `gorm:"column:current_team_id;type:uuid"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName prefers the split name fields and falls back to the legacy
// display name.
func (u *User) FullName() string {
	if u.FirstName != nil && u.LastName != nil {
		return *u.FirstName + " " + *u.LastName
	}
	if u.Name != nil {
		return *u.Name
	}
	return "Unknown User"
}

// IsSuperAdmin reports whether the user holds the global super admin role.
func (u *User) IsSuperAdmin() bool {
	return u.GlobalRole == enums.UserRoleSuperAdmin
}
