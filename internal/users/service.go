package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campuskit/membership-backend/internal/memberships"
	"github.com/campuskit/membership-backend/pkg/config"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	pkgerrors "github.com/campuskit/membership-backend/pkg/errors"
	"github.com/campuskit/membership-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type usersRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetCurrentTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) error
	SetPreference(ctx context.Context, id uuid.UUID, key string, value any) (bool, error)
	GetPreference(ctx context.Context, id uuid.UUID, key string) (any, bool, error)
}

type membershipsRepository interface {
	HasActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	UserHasActiveRole(ctx context.Context, teamID, userID uuid.UUID, roles ...enums.TeamRole) (bool, error)
	ListUserTeams(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithTeam, error)
	CountApprovedBy(ctx context.Context, approverID uuid.UUID) (int64, error)
}

type invitationsCounter interface {
	CountInvitedBy(ctx context.Context, inviterID uuid.UUID) (int64, error)
}

// Service exposes user account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	GetByEmail(ctx context.Context, email string) (*UserDTO, error)
	RecordLogin(ctx context.Context, id uuid.UUID) error
	SwitchTeam(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
	ClearCurrentTeam(ctx context.Context, userID uuid.UUID) error
	SetPreference(ctx context.Context, userID uuid.UUID, key string, value any) error
	CanManageTeams(ctx context.Context, userID uuid.UUID) (bool, error)
	CanManageTeam(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
	Stats(ctx context.Context, userID uuid.UUID) (*UserStatsDTO, error)
}

type service struct {
	repo        usersRepository
	memberships membershipsRepository
	invitations invitationsCounter
	passwordCfg config.PasswordConfig
}

// NewService builds a user service with the provided repositories.
func NewService(repo usersRepository, membershipsRepo membershipsRepository, invitations invitationsCounter, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if invitations == nil {
		return nil, fmt.Errorf("invitations repository required")
	}
	return &service{
		repo:        repo,
		memberships: membershipsRepo,
		invitations: invitations,
		passwordCfg: passwordCfg,
	}, nil
}

// RegisterInput captures the data required to open an account.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  *string
	LastName   *string
	StudentID  *string
	GlobalRole *enums.UserRole
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password too short")
	}
	if input.GlobalRole != nil && !input.GlobalRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid global role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		StudentID:    input.StudentID,
		GlobalRole:   input.GlobalRole,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

func (s *service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.UpdateLastLogin(ctx, id, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	return nil
}

// SwitchTeam points the user's working context at the team. It reports
// false without mutating anything when the user holds no active
// membership there.
func (s *service) SwitchTeam(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	active, err := s.memberships.HasActiveMember(ctx, teamID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !active {
		return false, nil
	}

	if err := s.repo.SetCurrentTeam(ctx, userID, &teamID); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set current team")
	}
	return true, nil
}

func (s *service) ClearCurrentTeam(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.SetCurrentTeam(ctx, userID, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear current team")
	}
	return nil
}

func (s *service) SetPreference(ctx context.Context, userID uuid.UUID, key string, value any) error {
	if strings.TrimSpace(key) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "preference key is required")
	}

	ok, err := s.repo.SetPreference(ctx, userID, key, value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set preference")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

// CanManageTeams reports whether the user may administer teams globally.
func (s *service) CanManageTeams(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.GlobalRole == enums.UserRoleSuperAdmin, nil
}

// CanManageTeam reports whether the user may administer one specific
// team, either through a global admin role or an active team admin
// membership.
func (s *service) CanManageTeam(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	global, err := s.CanManageTeams(ctx, userID)
	if err != nil {
		return false, err
	}
	if global {
		return true, nil
	}

	ok, err := s.memberships.UserHasActiveRole(ctx, teamID, userID, enums.TeamRoleAdmin)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check team role")
	}
	return ok, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*UserStatsDTO, error) {
	teams, err := s.memberships.ListUserTeams(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user teams")
	}

	stats := &UserStatsDTO{}
	for _, membership := range teams {
		switch membership.Status {
		case enums.MembershipStatusActive:
			stats.ActiveTeams++
		case enums.MembershipStatusPending:
			stats.PendingTeams++
		case enums.MembershipStatusSuspended:
			stats.SuspendedTeams++
		}
		if membership.Role == enums.TeamRoleAdmin && membership.Status == enums.MembershipStatusActive {
			stats.AdminTeams++
		}
	}

	sent, err := s.invitations.CountInvitedBy(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count sent invitations")
	}
	stats.InvitationsSent = sent

	approved, err := s.memberships.CountApprovedBy(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count approved memberships")
	}
	stats.MembershipsApproved = approved

	return stats, nil
}
