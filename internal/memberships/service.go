package memberships

import (
	"context"
	"fmt"

	"github.com/campuskit/membership-backend/internal/notifications"
	"github.com/campuskit/membership-backend/pkg/db"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	pkgerrors "github.com/campuskit/membership-backend/pkg/errors"
	"github.com/campuskit/membership-backend/pkg/metrics"
	"github.com/google/uuid"
)

type membershipsRepository interface {
	AddUser(ctx context.Context, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*models.Membership, error)
	ApproveUser(ctx context.Context, teamID, userID, approverID uuid.UUID) (bool, error)
	SuspendUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	RemoveUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	GetUserRole(ctx context.Context, teamID, userID uuid.UUID) (*enums.TeamRole, error)
}

// Service wraps membership state transitions with the activity counters
// and notification events the repository layer does not emit.
type Service interface {
	Add(ctx context.Context, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*MembershipDTO, error)
	Approve(ctx context.Context, teamID, userID, approverID uuid.UUID) (bool, error)
	Suspend(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	Remove(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

type service struct {
	repo     membershipsRepository
	notifier notifications.Notifier
	metrics  *metrics.MembershipMetrics
}

// NewService builds a membership service. The notifier and metrics are
// optional collaborators.
func NewService(repo membershipsRepository, notifier notifications.Notifier, m *metrics.MembershipMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &service{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
	}, nil
}

func (s *service) Add(ctx context.Context, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*MembershipDTO, error) {
	membership, err := s.repo.AddUser(ctx, teamID, userID, role, status, approver)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user already belongs to team")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add member")
	}

	return ToDTO(membership), nil
}

// Approve promotes a pending membership and reports false when no
// pending row exists for the pair.
func (s *service) Approve(ctx context.Context, teamID, userID, approverID uuid.UUID) (bool, error) {
	ok, err := s.repo.ApproveUser(ctx, teamID, userID, approverID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve member")
	}
	if !ok {
		return false, nil
	}

	s.metrics.IncApproved(teamID.String())

	event := notifications.MembershipEvent{
		TeamID:     teamID,
		UserID:     userID,
		ApprovedBy: &approverID,
	}
	if role, err := s.repo.GetUserRole(ctx, teamID, userID); err == nil && role != nil {
		event.Role = role.String()
	}
	s.notifier.MembershipApproved(ctx, event)
	return true, nil
}

// Suspend sets the membership to suspended regardless of its prior
// status and reports whether a row was touched.
func (s *service) Suspend(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.SuspendUser(ctx, teamID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "suspend member")
	}
	if !ok {
		return false, nil
	}

	s.metrics.IncSuspended(teamID.String())
	return true, nil
}

func (s *service) Remove(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	ok, err := s.repo.RemoveUser(ctx, teamID, userID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}
	return ok, nil
}
