package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campuskit/membership-backend/pkg/db/models"
	dbtypes "github.com/campuskit/membership-backend/pkg/db/types"
	"github.com/campuskit/membership-backend/pkg/enums"
	pkgerrors "github.com/campuskit/membership-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type teamsRepository interface {
	Create(ctx context.Context, dto CreateTeamDTO) (*models.Team, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	FindBySlug(ctx context.Context, slug string) (*models.Team, error)
	FindByDepartmentCode(ctx context.Context, code string) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListActive(ctx context.Context) ([]models.Team, error)
}

type membershipsRepository interface {
	CountTotal(ctx context.Context, teamID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, teamID uuid.UUID, status enums.MembershipStatus) (int64, error)
	CountActiveByRole(ctx context.Context, teamID uuid.UUID, role enums.TeamRole) (int64, error)
}

type invitationsCounter interface {
	CountPendingForTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
}

// Service exposes team operations.
type Service interface {
	Create(ctx context.Context, input CreateTeamInput) (*TeamDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TeamDTO, error)
	GetBySlug(ctx context.Context, slug string) (*TeamDTO, error)
	GetByDepartmentCode(ctx context.Context, code string) (*TeamDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTeamInput) (*TeamDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context) ([]TeamDTO, error)
	Stats(ctx context.Context, id uuid.UUID) (*TeamStatsDTO, error)
}

type service struct {
	repo        teamsRepository
	memberships membershipsRepository
	invitations invitationsCounter
}

// NewService builds a team service with the provided repositories.
func NewService(repo teamsRepository, membershipsRepo membershipsRepository, invitations invitationsCounter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("teams repository required")
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
	}, nil
}

// CreateTeamInput captures the data required to open a team.
type CreateTeamInput struct {
	Name           string
	Slug           string
	DepartmentCode string
	Description    *string
	ContactEmail   *string
	Phone          *string
	Settings       map[string]any
}

// UpdateTeamInput captures the allowed team fields for mutation. Nil
// fields are left untouched.
type UpdateTeamInput struct {
	Name         *string
	Description  *string
	ContactEmail *string
	Phone        *string
	IsActive     *bool
	Settings     *map[string]any
}

func (s *service) Create(ctx context.Context, input CreateTeamInput) (*TeamDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	code := strings.ToUpper(strings.TrimSpace(input.DepartmentCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department code is required")
	}
	if len(code) > 10 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "department code too long")
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	if err := checkSettings(input.Settings); err != nil {
		return nil, err
	}

	team, err := s.repo.Create(ctx, CreateTeamDTO{
		Name:           name,
		Slug:           slug,
		DepartmentCode: code,
		Description:    input.Description,
		ContactEmail:   input.ContactEmail,
		Phone:          input.Phone,
		Settings:       input.Settings,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create team")
	}
	return FromModel(team), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*TeamDTO, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupErr(err)
	}
	return FromModel(team), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*TeamDTO, error) {
	team, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, translateLookupErr(err)
	}
	return FromModel(team), nil
}

func (s *service) GetByDepartmentCode(ctx context.Context, code string) (*TeamDTO, error) {
	team, err := s.repo.FindByDepartmentCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, translateLookupErr(err)
	}
	return FromModel(team), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTeamInput) (*TeamDTO, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupErr(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = cloneStringPtr(input.Description)
	}
	if input.ContactEmail != nil {
		team.ContactEmail = cloneStringPtr(input.ContactEmail)
	}
	if input.Phone != nil {
		team.Phone = cloneStringPtr(input.Phone)
	}
	if input.IsActive != nil {
		team.IsActive = *input.IsActive
	}
	if input.Settings != nil {
		if err := checkSettings(*input.Settings); err != nil {
			return nil, err
		}
		if *input.Settings == nil {
			team.Settings = nil
		} else {
			merged := make(dbtypes.JSONMap, len(*input.Settings))
			for k, v := range *input.Settings {
				merged[k] = v
			}
			team.Settings = merged
		}
	}

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update team")
	}
	return FromModel(team), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete team")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
	}
	return nil
}

func (s *service) ListActive(ctx context.Context) ([]TeamDTO, error) {
	teams, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list teams")
	}

	out := make([]TeamDTO, 0, len(teams))
	for i := range teams {
		out = append(out, *FromModel(&teams[i]))
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context, id uuid.UUID) (*TeamStatsDTO, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, translateLookupErr(err)
	}

	stats := &TeamStatsDTO{}
	var err error
	if stats.TotalMembers, err = s.memberships.CountTotal(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count members")
	}
	if stats.ActiveMembers, err = s.memberships.CountByStatus(ctx, id, enums.MembershipStatusActive); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active members")
	}
	if stats.PendingMembers, err = s.memberships.CountByStatus(ctx, id, enums.MembershipStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending members")
	}
	if stats.SuspendedMembers, err = s.memberships.CountByStatus(ctx, id, enums.MembershipStatusSuspended); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count suspended members")
	}
	if stats.Admins, err = s.memberships.CountActiveByRole(ctx, id, enums.TeamRoleAdmin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
	}
	if stats.Staff, err = s.memberships.CountActiveByRole(ctx, id, enums.TeamRoleStaff); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count staff")
	}
	if stats.PendingInvitations, err = s.invitations.CountPendingForTeam(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending invitations")
	}
	return stats, nil
}

func translateLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team")
}

// Slugify derives a URL key from a display name.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
