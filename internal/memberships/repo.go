package memberships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuskit/membership-backend/internal/repo"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes membership persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// AddUser inserts a membership row for the (team, user) pair. When the
// status is active and an approver is supplied, the approval metadata is
// stamped at insert time. A second row for the same pair is rejected by
// the storage layer and the constraint violation surfaces untranslated.
func (r *Repository) AddUser(ctx context.Context, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*models.Membership, error) {
	return addUser(r.DB(ctx), teamID, userID, role, status, approver)
}

// AddUserWithTx behaves like AddUser inside the provided transaction.
func (r *Repository) AddUserWithTx(tx *gorm.DB, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*models.Membership, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	return addUser(tx, teamID, userID, role, status, approver)
}

func addUser(conn *gorm.DB, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*models.Membership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid team role %q", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid membership status %q", status)
	}

	now := time.Now().UTC()
	membership := &models.Membership{
		ID:       uuid.New(),
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		Status:   status,
		JoinedAt: &now,
	}
	if status == enums.MembershipStatusActive && approver != nil {
		membership.ApprovedAt = &now
		membership.ApprovedBy = approver
	}

	if err := conn.Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// ApproveUser transitions a pending membership to active, stamping the
// approval metadata. It reports false when no pending row exists for the
// pair, leaving any non-pending row untouched.
func (r *Repository) ApproveUser(ctx context.Context, teamID, userID, approverID uuid.UUID) (bool, error) {
	result := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, enums.MembershipStatusPending).
		Updates(map[string]any{
			"status":      enums.MembershipStatusActive,
			"approved_at": time.Now().UTC(),
			"approved_by": approverID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SuspendUser sets the membership status to suspended regardless of its
// prior status. It reports whether a row was affected.
func (r *Repository) SuspendUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	result := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("status", enums.MembershipStatusSuspended)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveUser deletes the membership row for the pair, reporting whether
// one existed.
func (r *Repository) RemoveUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	result := r.DB(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.Membership{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetMembership retrieves a membership by team and user.
func (r *Repository) GetMembership(ctx context.Context, teamID, userID uuid.UUID) (*models.Membership, error) {
	var membership models.Membership
	err := r.DB(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// HasMember reports whether any membership row exists for the pair.
func (r *Repository) HasMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasActiveMember reports whether the pair has an active membership.
func (r *Repository) HasActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, enums.MembershipStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUserRole returns the user's role in the team, or nil when no
// membership row exists. Absence is not an error.
func (r *Repository) GetUserRole(ctx context.Context, teamID, userID uuid.UUID) (*enums.TeamRole, error) {
	membership, err := r.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	role := membership.Role
	return &role, nil
}

// GetUserStatus returns the user's membership status in the team, or nil
// when no membership row exists. Absence is not an error.
func (r *Repository) GetUserStatus(ctx context.Context, teamID, userID uuid.UUID) (*enums.MembershipStatus, error) {
	membership, err := r.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	status := membership.Status
	return &status, nil
}

// UserHasActiveRole reports whether the user holds one of the provided
// roles in the team with an active membership.
func (r *Repository) UserHasActiveRole(ctx context.Context, teamID, userID uuid.UUID, roles ...enums.TeamRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND user_id = ? AND status = ? AND role IN ?", teamID, userID, enums.MembershipStatusActive, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTeamUsers returns memberships for the team joined with user metadata.
func (r *Repository) ListTeamUsers(ctx context.Context, teamID uuid.UUID) ([]TeamMemberDTO, error) {
	var rows []teamMemberRow
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Select("team_user.*, users.email, users.first_name, users.last_name, users.last_login_at").
		Joins("JOIN users ON users.id = team_user.user_id").
		Where("team_user.team_id = ?", teamID).
		Order("team_user.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return teamMembersFromRows(rows), nil
}

// ListTeamUsersByStatus narrows ListTeamUsers to one membership status.
func (r *Repository) ListTeamUsersByStatus(ctx context.Context, teamID uuid.UUID, status enums.MembershipStatus) ([]TeamMemberDTO, error) {
	var rows []teamMemberRow
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Select("team_user.*, users.email, users.first_name, users.last_name, users.last_login_at").
		Joins("JOIN users ON users.id = team_user.user_id").
		Where("team_user.team_id = ? AND team_user.status = ?", teamID, status).
		Order("team_user.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return teamMembersFromRows(rows), nil
}

// ListActiveTeamUsersByRole returns the active members of the team
// holding the given role.
func (r *Repository) ListActiveTeamUsersByRole(ctx context.Context, teamID uuid.UUID, role enums.TeamRole) ([]TeamMemberDTO, error) {
	var rows []teamMemberRow
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Select("team_user.*, users.email, users.first_name, users.last_name, users.last_login_at").
		Joins("JOIN users ON users.id = team_user.user_id").
		Where("team_user.team_id = ? AND team_user.status = ? AND team_user.role = ?", teamID, enums.MembershipStatusActive, role).
		Order("team_user.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return teamMembersFromRows(rows), nil
}

// ListUserTeams returns the teams a user belongs to along with membership metadata.
func (r *Repository) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]MembershipWithTeam, error) {
	var rows []membershipWithTeamRow
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Select("team_user.*, teams.name AS team_name, teams.slug AS team_slug").
		Joins("JOIN teams ON teams.id = team_user.team_id").
		Where("team_user.user_id = ?", userID).
		Order("teams.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membershipRowsToDTO(rows), nil
}

// ListUserTeamsByStatus narrows ListUserTeams to one membership status.
func (r *Repository) ListUserTeamsByStatus(ctx context.Context, userID uuid.UUID, status enums.MembershipStatus) ([]MembershipWithTeam, error) {
	var rows []membershipWithTeamRow
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Select("team_user.*, teams.name AS team_name, teams.slug AS team_slug").
		Joins("JOIN teams ON teams.id = team_user.team_id").
		Where("team_user.user_id = ? AND team_user.status = ?", userID, status).
		Order("teams.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membershipRowsToDTO(rows), nil
}

// ListActiveUserTeamsByRole returns teams where the user is an active
// member holding the given role.
func (r *Repository) ListActiveUserTeamsByRole(ctx context.Context, userID uuid.UUID, role enums.TeamRole) ([]MembershipWithTeam, error) {
	var rows []membershipWithTeamRow
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Select("team_user.*, teams.name AS team_name, teams.slug AS team_slug").
		Joins("JOIN teams ON teams.id = team_user.team_id").
		Where("team_user.user_id = ? AND team_user.status = ? AND team_user.role = ?", userID, enums.MembershipStatusActive, role).
		Order("teams.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membershipRowsToDTO(rows), nil
}

// CountByStatus counts the team's memberships in the given status.
func (r *Repository) CountByStatus(ctx context.Context, teamID uuid.UUID, status enums.MembershipStatus) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND status = ?", teamID, status).
		Count(&count).Error
	return count, err
}

// CountTotal counts every membership row for the team.
func (r *Repository) CountTotal(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	return count, err
}

// CountActiveByRole counts the team's active members holding the role.
func (r *Repository) CountActiveByRole(ctx context.Context, teamID uuid.UUID, role enums.TeamRole) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("team_id = ? AND status = ? AND role = ?", teamID, enums.MembershipStatusActive, role).
		Count(&count).Error
	return count, err
}

// CountApprovedBy counts memberships the user has approved.
func (r *Repository) CountApprovedBy(ctx context.Context, approverID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Membership{}).
		Where("approved_by = ?", approverID).
		Count(&count).Error
	return count, err
}

// SetPermission writes a single per-member override flag. The stored map
// is opaque to the core; it reports false when no membership row exists.
func (r *Repository) SetPermission(ctx context.Context, teamID, userID uuid.UUID, permission string, value bool) (bool, error) {
	membership, err := r.GetMembership(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if membership.Permissions == nil {
		membership.Permissions = map[string]any{}
	}
	membership.Permissions[permission] = value

	err = r.DB(ctx).
		Model(&models.Membership{}).
		Where("id = ?", membership.ID).
		Update("permissions", membership.Permissions).Error
	if err != nil {
		return false, err
	}
	return true, nil
}
