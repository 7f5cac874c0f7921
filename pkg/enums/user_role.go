package enums

import "fmt"

// UserRole represents a user's global privilege tier, independent of any team.
type UserRole string

const (
	UserRoleStudent         UserRole = "student"
	UserRoleStaff           UserRole = "staff"
	UserRoleDepartmentAdmin UserRole = "department_admin"
	UserRoleSuperAdmin      UserRole = "super_admin"
)

var validUserRoles = []UserRole{
	UserRoleStudent,
	UserRoleStaff,
	UserRoleDepartmentAdmin,
	UserRoleSuperAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// Label returns the human-facing display name.
func (u UserRole) Label() string {
	switch u {
	case UserRoleStudent:
		return "Student"
	case UserRoleStaff:
		return "Staff"
	case UserRoleDepartmentAdmin:
		return "Department Admin"
	case UserRoleSuperAdmin:
		return "Super Admin"
	}
	return ""
}

// Color returns the UI badge color associated with the role.
func (u UserRole) Color() string {
	switch u {
	case UserRoleStudent:
		return "info"
	case UserRoleStaff:
		return "success"
	case UserRoleDepartmentAdmin:
		return "warning"
	case UserRoleSuperAdmin:
		return "danger"
	}
	return ""
}

// Description returns a short explanation of what the role grants.
func (u UserRole) Description() string {
	switch u {
	case UserRoleStudent:
		return "Students can view schedules and manage their profiles"
	case UserRoleStaff:
		return "Staff can manage assigned courses and view team data"
	case UserRoleDepartmentAdmin:
		return "Department administrators can manage users and team settings"
	case UserRoleSuperAdmin:
		return "Super administrators have system-wide access"
	}
	return ""
}
