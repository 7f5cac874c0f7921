package invitations

import (
	"context"
	"time"

	"github.com/campuskit/membership-backend/internal/repo"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes invitation persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create persists a new invitation row. A duplicate token surfaces the
// storage conflict untranslated.
func (r *Repository) Create(ctx context.Context, invitation *models.Invitation) error {
	return r.DB(ctx).Create(invitation).Error
}

// FindByID loads an invitation by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.DB(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken loads an invitation by its opaque token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.DB(ctx).Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByTokenWithTx behaves like FindByToken inside the provided
// transaction.
func (r *Repository) FindByTokenWithTx(tx *gorm.DB, token string) (*models.Invitation, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var invitation models.Invitation
	if err := tx.Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListPendingForTeam returns invitations not yet accepted, newest first.
func (r *Repository) ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	return r.list(r.DB(ctx).Where("team_id = ? AND accepted_at IS NULL", teamID))
}

// ListAcceptedForTeam returns redeemed invitations, newest first.
func (r *Repository) ListAcceptedForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error) {
	return r.list(r.DB(ctx).Where("team_id = ? AND accepted_at IS NOT NULL", teamID))
}

// ListExpiredForTeam returns lapsed, unredeemed invitations.
func (r *Repository) ListExpiredForTeam(ctx context.Context, teamID uuid.UUID, now time.Time) ([]models.Invitation, error) {
	return r.list(r.DB(ctx).Where("team_id = ? AND accepted_at IS NULL AND expires_at <= ?", teamID, now))
}

// ListValidForTeam returns invitations that can still be accepted.
func (r *Repository) ListValidForTeam(ctx context.Context, teamID uuid.UUID, now time.Time) ([]models.Invitation, error) {
	return r.list(r.DB(ctx).Where("team_id = ? AND accepted_at IS NULL AND expires_at > ?", teamID, now))
}

// ListForEmail returns every invitation addressed to the email.
func (r *Repository) ListForEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	return r.list(r.DB(ctx).Where("email = ?", email))
}

// CountPendingForTeam counts invitations awaiting acceptance.
func (r *Repository) CountPendingForTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Invitation{}).
		Where("team_id = ? AND accepted_at IS NULL", teamID).
		Count(&count).Error
	return count, err
}

// CountInvitedBy counts invitations sent by the user across all teams.
func (r *Repository) CountInvitedBy(ctx context.Context, inviterID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Invitation{}).
		Where("invited_by = ?", inviterID).
		Count(&count).Error
	return count, err
}

// UpdateToken replaces the invitation token, leaving the expiry alone.
// It reports false when no row matched.
func (r *Repository) UpdateToken(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	res := r.DB(ctx).Model(&models.Invitation{}).
		Where("id = ?", id).
		UpdateColumn("token", token)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateExpiry replaces the expiry instant. It reports false when no
// row matched.
func (r *Repository) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) (bool, error) {
	res := r.DB(ctx).Model(&models.Invitation{}).
		Where("id = ?", id).
		UpdateColumn("expires_at", expiresAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkAcceptedWithTx stamps the acceptance metadata on an unredeemed
// invitation inside the provided transaction. It reports false when the
// row was already accepted or does not exist.
func (r *Repository) MarkAcceptedWithTx(tx *gorm.DB, id, acceptedBy uuid.UUID, at time.Time) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	res := tx.Model(&models.Invitation{}).
		Where("id = ? AND accepted_at IS NULL", id).
		Updates(map[string]any{
			"accepted_at": at,
			"accepted_by": acceptedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the invitation row. Revocation keeps no tombstone.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.Invitation{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) list(query *gorm.DB) ([]models.Invitation, error) {
	var out []models.Invitation
	if err := query.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
