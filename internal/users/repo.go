package users

import (
	"context"
	"errors"
	"time"

	"github.com/campuskit/membership-backend/internal/repo"
	"github.com/campuskit/membership-backend/pkg/db/models"
	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model. Duplicate
// email or student id surfaces the storage conflict untranslated.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByStudentID retrieves the user carrying the institutional id.
func (r *Repository) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("student_id = ?", studentID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SetCurrentTeam points the user's working context at the given team.
// A nil team id clears the context.
func (r *Repository) SetCurrentTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("current_team_id", teamID).Error
}

// SetActive toggles the account flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	res := r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// GetPreference returns one preference value. The second return is false
// when the user has no value stored under the key.
func (r *Repository) GetPreference(ctx context.Context, id uuid.UUID, key string) (any, bool, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if user.Preferences == nil {
		return nil, false, nil
	}
	value, ok := user.Preferences[key]
	return value, ok, nil
}

// SetPreference stores one preference value, reporting false when the
// user row does not exist.
func (r *Repository) SetPreference(ctx context.Context, id uuid.UUID, key string, value any) (bool, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if user.Preferences == nil {
		user.Preferences = dbtypes.JSONMap{}
	}
	user.Preferences[key] = value

	err = r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("preferences", user.Preferences).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListActive returns active accounts ordered by email.
func (r *Repository) ListActive(ctx context.Context) ([]models.User, error) {
	return r.list(r.DB(ctx).Where("is_active = ?", true))
}

// ListInactive returns deactivated accounts ordered by email.
func (r *Repository) ListInactive(ctx context.Context) ([]models.User, error) {
	return r.list(r.DB(ctx).Where("is_active = ?", false))
}

// ListByGlobalRole returns users holding the given global role.
func (r *Repository) ListByGlobalRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	return r.list(r.DB(ctx).Where("global_role = ?", role))
}

func (r *Repository) list(query *gorm.DB) ([]models.User, error) {
	var out []models.User
	if err := query.Order("email ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
