package memberships

import (
	"context"
	"errors"
	"testing"

	"github.com/campuskit/membership-backend/internal/notifications"
	"github.com/campuskit/membership-backend/pkg/db/models"
	"github.com/campuskit/membership-backend/pkg/enums"
	pkgerrors "github.com/campuskit/membership-backend/pkg/errors"
	"github.com/campuskit/membership-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type stubMembershipsRepo struct {
	added      *models.Membership
	addErr     error
	approveOK  bool
	approveErr error
	suspendOK  bool
	removeOK   bool
	role       *enums.TeamRole
}

func (s *stubMembershipsRepo) AddUser(ctx context.Context, teamID, userID uuid.UUID, role enums.TeamRole, status enums.MembershipStatus, approver *uuid.UUID) (*models.Membership, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = &models.Membership{
		ID:     uuid.New(),
		TeamID: teamID,
		UserID: userID,
		Role:   role,
		Status: status,
	}
	return s.added, nil
}

func (s *stubMembershipsRepo) ApproveUser(ctx context.Context, teamID, userID, approverID uuid.UUID) (bool, error) {
	return s.approveOK, s.approveErr
}

func (s *stubMembershipsRepo) SuspendUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return s.suspendOK, nil
}

func (s *stubMembershipsRepo) RemoveUser(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return s.removeOK, nil
}

func (s *stubMembershipsRepo) GetUserRole(ctx context.Context, teamID, userID uuid.UUID) (*enums.TeamRole, error) {
	return s.role, nil
}

type captureNotifier struct {
	approved []notifications.MembershipEvent
}

func (c *captureNotifier) InvitationCreated(context.Context, notifications.InvitationEvent) {}

func (c *captureNotifier) MembershipApproved(ctx context.Context, event notifications.MembershipEvent) {
	c.approved = append(c.approved, event)
}

func newMembershipTestService(t *testing.T, repo *stubMembershipsRepo, notifier *captureNotifier, m *metrics.MembershipMetrics) Service {
	t.Helper()
	if repo == nil {
		repo = &stubMembershipsRepo{}
	}
	var n notifications.Notifier
	if notifier != nil {
		n = notifier
	}
	svc, err := NewService(repo, n, m)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, team string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "team" && label.GetValue() == team {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestApproveEmitsCounterAndEvent(t *testing.T) {
	role := enums.TeamRoleStaff
	repo := &stubMembershipsRepo{approveOK: true, role: &role}
	notifier := &captureNotifier{}
	reg := prometheus.NewRegistry()
	svc := newMembershipTestService(t, repo, notifier, metrics.NewMembershipMetrics(reg))

	teamID := uuid.New()
	userID := uuid.New()
	approverID := uuid.New()
	ok, err := svc.Approve(context.Background(), teamID, userID, approverID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !ok {
		t.Fatal("expected approval to report success")
	}

	if got := counterValue(t, reg, "memberships_approved_total", teamID.String()); got != 1 {
		t.Fatalf("expected approval counter 1, got %v", got)
	}
	if len(notifier.approved) != 1 {
		t.Fatalf("expected one approval event, got %d", len(notifier.approved))
	}
	event := notifier.approved[0]
	if event.TeamID != teamID || event.UserID != userID {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.ApprovedBy == nil || *event.ApprovedBy != approverID {
		t.Fatalf("expected approver %s in event, got %v", approverID, event.ApprovedBy)
	}
	if event.Role != role.String() {
		t.Fatalf("expected role %s in event, got %q", role, event.Role)
	}
}

func TestApproveWithoutPendingRowStaysSilent(t *testing.T) {
	repo := &stubMembershipsRepo{approveOK: false}
	notifier := &captureNotifier{}
	reg := prometheus.NewRegistry()
	svc := newMembershipTestService(t, repo, notifier, metrics.NewMembershipMetrics(reg))

	teamID := uuid.New()
	ok, err := svc.Approve(context.Background(), teamID, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if ok {
		t.Fatal("expected approval of a missing pending row to report false")
	}
	if got := counterValue(t, reg, "memberships_approved_total", teamID.String()); got != 0 {
		t.Fatalf("expected no counter increment, got %v", got)
	}
	if len(notifier.approved) != 0 {
		t.Fatalf("expected no events, got %d", len(notifier.approved))
	}
}

func TestSuspendIncrementsCounter(t *testing.T) {
	repo := &stubMembershipsRepo{suspendOK: true}
	reg := prometheus.NewRegistry()
	svc := newMembershipTestService(t, repo, nil, metrics.NewMembershipMetrics(reg))

	teamID := uuid.New()
	ok, err := svc.Suspend(context.Background(), teamID, uuid.New())
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if !ok {
		t.Fatal("expected suspension to report success")
	}
	if got := counterValue(t, reg, "memberships_suspended_total", teamID.String()); got != 1 {
		t.Fatalf("expected suspension counter 1, got %v", got)
	}
}

func TestAddTranslatesDuplicatePair(t *testing.T) {
	repo := &stubMembershipsRepo{
		addErr: errors.New("UNIQUE constraint failed: team_user.team_id, team_user.user_id"),
	}
	svc := newMembershipTestService(t, repo, nil, nil)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), enums.TeamRoleMember, enums.MembershipStatusPending, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code for duplicate pair, got %v", err)
	}
}

func TestAddReturnsMembership(t *testing.T) {
	repo := &stubMembershipsRepo{}
	svc := newMembershipTestService(t, repo, nil, nil)

	teamID := uuid.New()
	userID := uuid.New()
	dto, err := svc.Add(context.Background(), teamID, userID, enums.TeamRoleMember, enums.MembershipStatusPending, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if dto.TeamID != teamID || dto.UserID != userID {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if dto.Status != enums.MembershipStatusPending {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
}
