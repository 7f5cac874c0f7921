package memberships

import (
	"time"

	"github.com/campuskit/membership-backend/pkg/db/models"
)

type membershipWithTeamRow struct {
	models.Membership
	TeamName string `gorm:"column:team_name"`
	TeamSlug string `gorm:"column:team_slug"`
}

func membershipWithTeamFromRow(row membershipWithTeamRow) MembershipWithTeam {
	return MembershipWithTeam{
		MembershipID: row.ID,
		TeamID:       row.TeamID,
		UserID:       row.UserID,
		TeamName:     row.TeamName,
		TeamSlug:     row.TeamSlug,
		Role:         row.Role,
		Status:       row.Status,
		ApprovedBy:   copyUUIDPointer(row.ApprovedBy),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithTeamRow) []MembershipWithTeam {
	out := make([]MembershipWithTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithTeamFromRow(row))
	}
	return out
}

type teamMemberRow struct {
	models.Membership
	Email       string  `gorm:"column:email"`
	FirstName   *string `gorm:"column:first_name"`
	LastName    *string `gorm:"column:last_name"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func teamMembersFromRows(rows []teamMemberRow) []TeamMemberDTO {
	out := make([]TeamMemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TeamMemberDTO{
			MembershipID: row.ID,
			TeamID:       row.TeamID,
			UserID:       row.UserID,
			Email:        row.Email,
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Role:         row.Role,
			Status:       row.Status,
			JoinedAt:     copyTimePointer(row.JoinedAt),
			CreatedAt:    row.CreatedAt,
			LastLoginAt:  copyTimePointer(row.LastLoginAt),
		})
	}
	return out
}
