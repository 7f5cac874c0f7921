package enums

import "fmt"

// TeamRole represents a team-scoped permissions role, meaningful only
// within one team's membership or invitation.
type TeamRole string

const (
	TeamRoleMember TeamRole = "member"
	TeamRoleStaff  TeamRole = "staff"
	TeamRoleAdmin  TeamRole = "admin"
)

var validTeamRoles = []TeamRole{
	TeamRoleMember,
	TeamRoleStaff,
	TeamRoleAdmin,
}

// String implements fmt.Stringer.
func (t TeamRole) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TeamRole.
func (t TeamRole) IsValid() bool {
	for _, candidate := range validTeamRoles {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTeamRole converts raw input into a TeamRole.
func ParseTeamRole(value string) (TeamRole, error) {
	for _, candidate := range validTeamRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid team role %q", value)
}

// Label returns the human-facing display name.
func (t TeamRole) Label() string {
	switch t {
	case TeamRoleMember:
		return "Member"
	case TeamRoleStaff:
		return "Staff"
	case TeamRoleAdmin:
		return "Admin"
	}
	return ""
}

// Color returns the UI badge color associated with the role.
func (t TeamRole) Color() string {
	switch t {
	case TeamRoleMember:
		return "gray"
	case TeamRoleStaff:
		return "success"
	case TeamRoleAdmin:
		return "warning"
	}
	return ""
}

// Description returns a short explanation of what the role grants.
func (t TeamRole) Description() string {
	switch t {
	case TeamRoleMember:
		return "Basic team membership with limited permissions"
	case TeamRoleStaff:
		return "Team staff with enhanced permissions for course management"
	case TeamRoleAdmin:
		return "Team administrators with full team management capabilities"
	}
	return ""
}
