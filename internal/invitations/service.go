package invitations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campuskit/membership-backend/internal/notifications"
	"github.com/campuskit/membership-backend/pkg/config"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	pkgerrors "github.com/campuskit/membership-backend/pkg/errors"
	"github.com/campuskit/membership-backend/pkg/metrics"
	"github.com/campuskit/membership-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invitationsRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
	FindByToken(ctx context.Context, token string) (*models.Invitation, error)
	FindByTokenWithTx(tx *gorm.DB, token string) (*models.Invitation, error)
	MarkAcceptedWithTx(tx *gorm.DB, id, acceptedBy uuid.UUID, at time.Time) (bool, error)
	UpdateToken(ctx context.Context, id uuid.UUID, token string) (bool, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListValidForTeam(ctx context.Context, teamID uuid.UUID, now time.Time) ([]models.Invitation, error)
	ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]models.Invitation, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type membershipsRepository interface {
	AddUserWithTx(tx *gorm.DB, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*models.Membership, error)
}

// Service exposes the invitation lifecycle.
type Service interface {
	Issue(ctx context.Context, input IssueInput) (*InvitationDTO, error)
	GetByToken(ctx context.Context, token string) (*InvitationDTO, error)
	Accept(ctx context.Context, token string, userID uuid.UUID) (bool, error)
	RegenerateToken(ctx context.Context, id uuid.UUID) (*InvitationDTO, error)
	Extend(ctx context.Context, id uuid.UUID, days int) (*InvitationDTO, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	ListValidForTeam(ctx context.Context, teamID uuid.UUID) ([]InvitationDTO, error)
	ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]InvitationDTO, error)
}

type service struct {
	repo        invitationsRepository
	memberships membershipsRepository
	notifier    notifications.Notifier
	metrics     *metrics.MembershipMetrics
	cfg         config.InvitationConfig
}

// NewService builds an invitation service. The notifier and metrics are
// optional collaborators.
func NewService(repo invitationsRepository, membershipsRepo membershipsRepository, notifier notifications.Notifier, m *metrics.MembershipMetrics, cfg config.InvitationConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invitations repository required")
	}
	if membershipsRepo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &service{
		repo:        repo,
		memberships: membershipsRepo,
		notifier:    notifier,
		metrics:     m,
		cfg:         cfg,
	}, nil
}

// IssueInput captures the caller-supplied invitation fields. Token and
// expiry are optional overrides.
type IssueInput struct {
	Email     string
	TeamID    uuid.UUID
	Role      enums.TeamRole
	InvitedBy uuid.UUID
	ExpiresAt *time.Time
}

func (s *service) Issue(ctx context.Context, input IssueInput) (*InvitationDTO, error) {
	invitation, err := NewInvitation(NewInvitationInput{
		Email:     input.Email,
		TeamID:    input.TeamID,
		Role:      input.Role,
		InvitedBy: input.InvitedBy,
		ExpiresAt: input.ExpiresAt,
	}, s.cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build invitation")
	}

	if err := s.repo.Create(ctx, invitation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invitation")
	}

	s.metrics.IncIssued(invitation.TeamID.String())
	s.notifier.InvitationCreated(ctx, notifications.InvitationEvent{
		InvitationID: invitation.ID,
		TeamID:       invitation.TeamID,
		Email:        invitation.Email,
		Role:         invitation.Role.String(),
		InvitedBy:    invitation.InvitedBy,
	})

	return FromModel(invitation), nil
}

func (s *service) GetByToken(ctx context.Context, token string) (*InvitationDTO, error) {
	invitation, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	return FromModel(invitation), nil
}

// Accept redeems the invitation for the given user. It reports false
// without mutating anything when the token is unknown, already
// redeemed, or expired. On success the acceptance stamp and the new
// active membership commit atomically.
func (s *service) Accept(ctx context.Context, token string, userID uuid.UUID) (bool, error) {
	if token == "" || userID == uuid.Nil {
		return false, nil
	}

	var accepted *models.Invitation
	now := time.Now().UTC()

	err := s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		invitation, err := s.repo.FindByTokenWithTx(tx, token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if !invitation.IsValid(now) {
			return nil
		}

		ok, err := s.repo.MarkAcceptedWithTx(tx, invitation.ID, userID, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		inviter := invitation.InvitedBy
		if _, err := s.memberships.AddUserWithTx(tx, invitation.TeamID, userID, invitation.Role, enums.MembershipStatusActive, &inviter); err != nil {
			return err
		}

		accepted = invitation
		return nil
	})
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept invitation")
	}
	if accepted == nil {
		return false, nil
	}

	s.metrics.IncAccepted(accepted.TeamID.String())
	inviter := accepted.InvitedBy
	s.notifier.MembershipApproved(ctx, notifications.MembershipEvent{
		TeamID:     accepted.TeamID,
		UserID:     userID,
		Role:       accepted.Role.String(),
		ApprovedBy: &inviter,
	})
	return true, nil
}

// RegenerateToken replaces the token with a fresh one. The expiry is
// left untouched.
func (s *service) RegenerateToken(ctx context.Context, id uuid.UUID) (*InvitationDTO, error) {
	length := s.cfg.TokenLength
	if length <= 0 {
		length = security.DefaultInviteTokenLength
	}
	token, err := security.GenerateInviteToken(length)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invite token")
	}

	ok, err := s.repo.UpdateToken(ctx, id, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update token")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}

	return s.reload(ctx, id)
}

// Extend moves the expiry to now plus the given number of days. The new
// window replaces the old one rather than adding to it.
func (s *service) Extend(ctx context.Context, id uuid.UUID, days int) (*InvitationDTO, error) {
	if days <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be positive")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(days) * 24 * time.Hour)
	ok, err := s.repo.UpdateExpiry(ctx, id, expiresAt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update expiry")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}

	return s.reload(ctx, id)
}

// Revoke deletes the invitation outright.
func (s *service) Revoke(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invitation")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}
	return nil
}

func (s *service) ListValidForTeam(ctx context.Context, teamID uuid.UUID) ([]InvitationDTO, error) {
	rows, err := s.repo.ListValidForTeam(ctx, teamID, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
	}
	return toDTOs(rows), nil
}

func (s *service) ListPendingForTeam(ctx context.Context, teamID uuid.UUID) ([]InvitationDTO, error) {
	rows, err := s.repo.ListPendingForTeam(ctx, teamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invitations")
	}
	return toDTOs(rows), nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*InvitationDTO, error) {
	invitation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invitation")
	}
	return FromModel(invitation), nil
}

func toDTOs(rows []models.Invitation) []InvitationDTO {
	out := make([]InvitationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
