package teams

import (
	"context"
	"fmt"

	"github.com/campuskit/membership-backend/internal/repo"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles team persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new team row. Duplicate slug or department code
// surfaces the storage conflict untranslated.
func (r *Repository) Create(ctx context.Context, dto CreateTeamDTO) (*models.Team, error) {
	team := dto.ToModel()
	if err := r.DB(ctx).Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// FindByID loads a team by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.DB(ctx).First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindBySlug loads a team by its URL key.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Team, error) {
	var team models.Team
	if err := r.DB(ctx).Where("slug = ?", slug).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByDepartmentCode loads a team by its institutional code.
func (r *Repository) FindByDepartmentCode(ctx context.Context, code string) (*models.Team, error) {
	var team models.Team
	if err := r.DB(ctx).Where("department_code = ?", code).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// Update saves the provided team.
func (r *Repository) Update(ctx context.Context, team *models.Team) error {
	if team == nil {
		return fmt.Errorf("team is required")
	}
	return r.DB(ctx).Save(team).Error
}

// Delete removes the team row. Memberships and invitations follow via
// the FK cascade. It reports false when no row matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Team{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListActive returns active teams ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]models.Team, error) {
	return r.list(r.DB(ctx).Where("is_active = ?", true))
}

// ListInactive returns deactivated teams ordered by name.
func (r *Repository) ListInactive(ctx context.Context) ([]models.Team, error) {
	return r.list(r.DB(ctx).Where("is_active = ?", false))
}

// ListAll returns every team ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Team, error) {
	return r.list(r.DB(ctx))
}

func (r *Repository) list(query *gorm.DB) ([]models.Team, error) {
	var out []models.Team
	if err := query.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
