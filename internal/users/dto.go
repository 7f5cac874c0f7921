package users

import (
	"time"

	"github.com/campuskit/membership-backend/pkg/db/models"
	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credential material.
type UserDTO struct {
	ID            uuid.UUID      `json:"id"`
	Email         string         `json:"email"`
	Name          *string        `json:"name,omitempty"`
	FirstName     *string        `json:"first_name,omitempty"`
	LastName      *string        `json:"last_name,omitempty"`
	FullName      string         `json:"full_name"`
	StudentID     *string        `json:"student_id,omitempty"`
	GlobalRole    enums.UserRole `json:"global_role"`
	IsActive      bool           `json:"is_active"`
	LastLoginAt   *time.Time     `json:"last_login_at,omitempty"`
	Preferences   map[string]any `json:"preferences,omitempty"`
	CurrentTeamID *uuid.UUID     `json:"current_team_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         *string
	FirstName    *string
	LastName     *string
	StudentID    *string
	GlobalRole   *enums.UserRole
	IsActive     *bool
	Preferences  map[string]any
}

// UserStatsDTO aggregates per-user activity counters.
type UserStatsDTO struct {
	ActiveTeams         int64 `json:"active_teams"`
	PendingTeams        int64 `json:"pending_teams"`
	SuspendedTeams      int64 `json:"suspended_teams"`
	AdminTeams          int64 `json:"admin_teams"`
	InvitationsSent     int64 `json:"invitations_sent"`
	MembershipsApproved int64 `json:"memberships_approved"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          cloneStringPtr(u.Name),
		FirstName:     cloneStringPtr(u.FirstName),
		LastName:      cloneStringPtr(u.LastName),
		FullName:      u.FullName(),
		StudentID:     cloneStringPtr(u.StudentID),
		GlobalRole:    u.GlobalRole,
		IsActive:      u.IsActive,
		LastLoginAt:   u.LastLoginAt,
		Preferences:   clonePreferences(u.Preferences),
		CurrentTeamID: cloneUUIDPtr(u.CurrentTeamID),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := enums.UserRoleStudent
	if c.GlobalRole != nil {
		role = *c.GlobalRole
	}

	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	var prefs dbtypes.JSONMap
	if c.Preferences != nil {
		prefs = make(dbtypes.JSONMap, len(c.Preferences))
		for k, v := range c.Preferences {
			prefs[k] = v
		}
	}

	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         cloneStringPtr(c.Name),
		FirstName:    cloneStringPtr(c.FirstName),
		LastName:     cloneStringPtr(c.LastName),
		StudentID:    cloneStringPtr(c.StudentID),
		GlobalRole:   role,
		IsActive:     isActive,
		Preferences:  prefs,
	}
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}

func cloneUUIDPtr(value *uuid.UUID) *uuid.UUID {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}

func clonePreferences(value dbtypes.JSONMap) map[string]any {
	if value == nil {
		return nil
	}
	out := make(map[string]any, len(value))
	for k, v := range value {
		out[k] = v
	}
	return out
}
