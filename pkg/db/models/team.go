package models

import (
	"time"

	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/google/uuid"
)

// Team represents the canonical tenant model. Slug and department code
// are the externally addressable keys.
type Team struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Slug           string          `gorm:"column:slug;not null;uniqueIndex"`
	DepartmentCode string          `gorm:"column:department_code;size:10;not null;uniqueIndex"`
	Description    *string         `gorm:"column:description"`
	ContactEmail   *string         `gorm:"column:contact_email"`
	Phone          *string         `gorm:"column:phone"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	Settings       dbtypes.JSONMap `gorm:"column:settings;type:jsonb"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
