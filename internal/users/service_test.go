package users

import (
	"context"
	"errors"
	"testing"
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

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUsersRepo, members *stubMembershipsRepo, invites *stubInvitationsCounter) Service {
	t.Helper()
	if repo == nil {
		repo = &stubUsersRepo{}
	}
	if members == nil {
		members = &stubMembershipsRepo{}
	}
	if invites == nil {
		invites = &stubInvitationsCounter{}
	}
	svc, err := NewService(repo, members, invites, testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresRepos(t *testing.T) {
	if _, err := NewService(nil, &stubMembershipsRepo{}, &stubInvitationsCounter{}, testPasswordConfig()); err == nil {
		t.Fatal("expected error creating service without users repo")
	}
	if _, err := NewService(&stubUsersRepo{}, nil, &stubInvitationsCounter{}, testPasswordConfig()); err == nil {
		t.Fatal("expected error creating service without memberships repo")
	}
	if _, err := NewService(&stubUsersRepo{}, &stubMembershipsRepo{}, nil, testPasswordConfig()); err == nil {
		t.Fatal("expected error creating service without invitations repo")
	}
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	repo := &stubUsersRepo{}
	svc := newTestService(t, repo, nil, nil)

	dto, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  New.Student@Example.EDU ",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "new.student@example.edu" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
	if dto.GlobalRole != enums.UserRoleStudent {
		t.Fatalf("expected student default role, got %s", dto.GlobalRole)
	}
	if !dto.IsActive {
		t.Fatal("expected new account to be active")
	}

	if repo.created == nil {
		t.Fatal("expected repo create call")
	}
	if repo.created.PasswordHash == "correct-horse" {
		t.Fatal("password must not be stored in the clear")
	}
	ok, err := security.VerifyPassword("correct-horse", repo.created.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	cases := []RegisterInput{
		{Email: "", Password: "long-enough"},
		{Email: "not-an-email", Password: "long-enough"},
		{Email: "a@b.edu", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(context.Background(), input)
		if err == nil {
			t.Fatalf("expected validation error for %+v", input)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := &stubUsersRepo{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestSwitchTeamRequiresActiveMembership(t *testing.T) {
	repo := &stubUsersRepo{}
	members := &stubMembershipsRepo{active: false}
	svc := newTestService(t, repo, members, nil)

	ok, err := svc.SwitchTeam(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("switch team: %v", err)
	}
	if ok {
		t.Fatal("expected refusal without an active membership")
	}
	if repo.currentTeamSet {
		t.Fatal("current team must not change on refusal")
	}

	members.active = true
	teamID := uuid.New()
	ok, err = svc.SwitchTeam(context.Background(), uuid.New(), teamID)
	if err != nil {
		t.Fatalf("switch team: %v", err)
	}
	if !ok {
		t.Fatal("expected switch to succeed")
	}
	if !repo.currentTeamSet || repo.currentTeam == nil || *repo.currentTeam != teamID {
		t.Fatalf("expected current team %s, got %v", teamID, repo.currentTeam)
	}
}

func TestCanManageTeamsSuperAdminOnly(t *testing.T) {
	cases := []struct {
		role enums.UserRole
		want bool
	}{
		{enums.UserRoleStudent, false},
		{enums.UserRoleStaff, false},
		{enums.UserRoleDepartmentAdmin, false},
		{enums.UserRoleSuperAdmin, true},
	}
	for _, tc := range cases {
		user := &models.User{ID: uuid.New(), Email: "who@example.edu", GlobalRole: tc.role, IsActive: true}
		svc := newTestService(t, &stubUsersRepo{user: user}, nil, nil)

		ok, err := svc.CanManageTeams(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("can manage teams (%s): %v", tc.role, err)
		}
		if ok != tc.want {
			t.Fatalf("role %s: expected %v, got %v", tc.role, tc.want, ok)
		}
	}
}

func TestCanManageTeamPaths(t *testing.T) {
	admin := &models.User{ID: uuid.New(), Email: "admin@example.edu", GlobalRole: enums.UserRoleSuperAdmin, IsActive: true}
	deptAdmin := &models.User{ID: uuid.New(), Email: "dept@example.edu", GlobalRole: enums.UserRoleDepartmentAdmin, IsActive: true}
	student := &models.User{ID: uuid.New(), Email: "student@example.edu", GlobalRole: enums.UserRoleStudent, IsActive: true}

	svc := newTestService(t, &stubUsersRepo{user: admin}, &stubMembershipsRepo{}, nil)
	ok, err := svc.CanManageTeam(context.Background(), admin.ID, uuid.New())
	if err != nil || !ok {
		t.Fatalf("expected super admin to manage any team: ok=%v err=%v", ok, err)
	}

	svc = newTestService(t, &stubUsersRepo{user: deptAdmin}, &stubMembershipsRepo{hasRole: false}, nil)
	ok, err = svc.CanManageTeam(context.Background(), deptAdmin.ID, uuid.New())
	if err != nil {
		t.Fatalf("can manage team: %v", err)
	}
	if ok {
		t.Fatal("department admin without a team admin membership must be refused")
	}

	svc = newTestService(t, &stubUsersRepo{user: student}, &stubMembershipsRepo{hasRole: true}, nil)
	ok, err = svc.CanManageTeam(context.Background(), student.ID, uuid.New())
	if err != nil || !ok {
		t.Fatalf("expected team admin to manage their team: ok=%v err=%v", ok, err)
	}

	svc = newTestService(t, &stubUsersRepo{user: student}, &stubMembershipsRepo{hasRole: false}, nil)
	ok, err = svc.CanManageTeam(context.Background(), student.ID, uuid.New())
	if err != nil {
		t.Fatalf("can manage team: %v", err)
	}
	if ok {
		t.Fatal("expected plain member to be refused")
	}
}

func TestStatsAggregatesMemberships(t *testing.T) {
	members := &stubMembershipsRepo{
		teams: []memberships.MembershipWithTeam{
			{Role: enums.TeamRoleAdmin, Status: enums.MembershipStatusActive},
			{Role: enums.TeamRoleMember, Status: enums.MembershipStatusActive},
			{Role: enums.TeamRoleMember, Status: enums.MembershipStatusPending},
			{Role: enums.TeamRoleAdmin, Status: enums.MembershipStatusSuspended},
		},
		approvedBy: 3,
	}
	invites := &stubInvitationsCounter{count: 5}
	svc := newTestService(t, &stubUsersRepo{}, members, invites)

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ActiveTeams != 2 || stats.PendingTeams != 1 || stats.SuspendedTeams != 1 {
		t.Fatalf("unexpected status partition: %+v", stats)
	}
	if stats.AdminTeams != 1 {
		t.Fatalf("suspended admin membership must not count, got %d", stats.AdminTeams)
	}
	if stats.InvitationsSent != 5 || stats.MembershipsApproved != 3 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
}

func TestStatsDependencyError(t *testing.T) {
	members := &stubMembershipsRepo{listErr: errors.New("boom")}
	svc := newTestService(t, &stubUsersRepo{}, members, nil)

	_, err := svc.Stats(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

type stubUsersRepo struct {
	user    *models.User
	findErr error

	created        *models.User
	currentTeam    *uuid.UUID
	currentTeamSet bool
	prefsMissing   bool
}

func (s *stubUsersRepo) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	s.created = dto.ToModel()
	return s.created, nil
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user != nil {
		return s.user, nil
	}
	return &models.User{ID: id, Email: "someone@example.edu", GlobalRole: enums.UserRoleStudent, IsActive: true}, nil
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user != nil {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) FindByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	return s.FindByEmail(ctx, studentID)
}

func (s *stubUsersRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (s *stubUsersRepo) SetCurrentTeam(ctx context.Context, id uuid.UUID, teamID *uuid.UUID) error {
	s.currentTeam = teamID
	s.currentTeamSet = true
	return nil
}

func (s *stubUsersRepo) SetPreference(ctx context.Context, id uuid.UUID, key string, value any) (bool, error) {
	return !s.prefsMissing, nil
}

func (s *stubUsersRepo) GetPreference(ctx context.Context, id uuid.UUID, key string) (any, bool, error) {
	return nil, false, nil
}

type stubMembershipsRepo struct {
	active     bool
	hasRole    bool
	teams      []memberships.MembershipWithTeam
	approvedBy int64
	listErr    error
}

func (s *stubMembershipsRepo) HasActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return s.active, nil
}

func (s *stubMembershipsRepo) UserHasActiveRole(ctx context.Context, teamID, userID uuid.UUID, roles ...enums.TeamRole) (bool, error) {
	return s.hasRole, nil
}

func (s *stubMembershipsRepo) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]memberships.MembershipWithTeam, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.teams, nil
}

func (s *stubMembershipsRepo) CountApprovedBy(ctx context.Context, approverID uuid.UUID) (int64, error) {
	return s.approvedBy, nil
}

type stubInvitationsCounter struct {
	count int64
}

func (s *stubInvitationsCounter) CountInvitedBy(ctx context.Context, inviterID uuid.UUID) (int64, error) {
	return s.count, nil
}
