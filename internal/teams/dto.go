package teams

import (
	"time"

	"github.com/campuskit/membership-backend/pkg/db/models"
	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/google/uuid"
)

// TeamDTO exposes safe tenant data in API responses.
type TeamDTO struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	DepartmentCode string         `json:"department_code"`
	Description    *string        `json:"description,omitempty"`
	ContactEmail   *string        `json:"contact_email,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	IsActive       bool           `json:"is_active"`
	Settings       map[string]any `json:"settings,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// CreateTeamDTO holds creation-time data for a new team.
type CreateTeamDTO struct {
	Name           string
	Slug           string
	DepartmentCode string
	Description    *string
	ContactEmail   *string
	Phone          *string
	IsActive       *bool
	Settings       map[string]any
}

// TeamStatsDTO aggregates per-team membership and invitation counters.
type TeamStatsDTO struct {
	TotalMembers       int64 `json:"total_members"`
	ActiveMembers      int64 `json:"active_members"`
	PendingMembers     int64 `json:"pending_members"`
	SuspendedMembers   int64 `json:"suspended_members"`
	Admins             int64 `json:"admins"`
	Staff              int64 `json:"staff"`
	PendingInvitations int64 `json:"pending_invitations"`
}

// FromModel maps the persisted team into a DTO.
func FromModel(m *models.Team) *TeamDTO {
	if m == nil {
		return nil
	}

	return &TeamDTO{
		ID:             m.ID,
		Name:           m.Name,
		Slug:           m.Slug,
		DepartmentCode: m.DepartmentCode,
		Description:    cloneStringPtr(m.Description),
		ContactEmail:   cloneStringPtr(m.ContactEmail),
		Phone:          cloneStringPtr(m.Phone),
		IsActive:       m.IsActive,
		Settings:       cloneSettings(m.Settings),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateTeamDTO) ToModel() *models.Team {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}

	var settings dbtypes.JSONMap
	if c.Settings != nil {
		settings = make(dbtypes.JSONMap, len(c.Settings))
		for k, v := range c.Settings {
			settings[k] = v
		}
	}

	return &models.Team{
		ID:             uuid.New(),
		Name:           c.Name,
		Slug:           c.Slug,
		DepartmentCode: c.DepartmentCode,
		Description:    cloneStringPtr(c.Description),
		ContactEmail:   cloneStringPtr(c.ContactEmail),
		Phone:          cloneStringPtr(c.Phone),
		IsActive:       isActive,
		Settings:       settings,
	}
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}

func cloneSettings(value dbtypes.JSONMap) map[string]any {
	if value == nil {
		return nil
	}
	out := make(map[string]any, len(value))
	for k, v := range value {
		out[k] = v
	}
	return out
}
