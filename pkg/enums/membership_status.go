package enums

import "fmt"

// MembershipStatus captures the lifecycle of a team membership.
type MembershipStatus string

const (
	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusSuspended MembershipStatus = "suspended"
)

var validMembershipStatuses = []MembershipStatus{
	MembershipStatusPending,
	MembershipStatusActive,
	MembershipStatusSuspended,
}

// String implements fmt.Stringer.
func (m MembershipStatus) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known MembershipStatus.
func (m MembershipStatus) IsValid() bool {
	for _, candidate := range validMembershipStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMembershipStatus converts raw input into a MembershipStatus.
func ParseMembershipStatus(value string) (MembershipStatus, error) {
	for _, candidate := range validMembershipStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid membership status %q", value)
}

// Label returns the human-facing display name.
func (m MembershipStatus) Label() string {
	switch m {
	case MembershipStatusPending:
		return "Pending"
	case MembershipStatusActive:
		return "Active"
	case MembershipStatusSuspended:
		return "Suspended"
	}
	return ""
}

// Color returns the UI badge color associated with the status.
func (m MembershipStatus) Color() string {
	switch m {
	case MembershipStatusPending:
		return "warning"
	case MembershipStatusActive:
		return "success"
	case MembershipStatusSuspended:
		return "danger"
	}
	return ""
}

// Description returns a short explanation of the status.
func (m MembershipStatus) Description() string {
	switch m {
	case MembershipStatusPending:
		return "Membership request pending approval"
	case MembershipStatusActive:
		return "Active team membership"
	case MembershipStatusSuspended:
		return "Suspended team membership"
	}
	return ""
}
