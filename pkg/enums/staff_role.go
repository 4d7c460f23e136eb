package enums

import (
	"fmt"
	"strings"
)

// StaffRole identifies the dashboard audience a token belongs to.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "ADMIN"
	StaffRoleStaff StaffRole = "STAFF"
)

var validStaffRoles = []StaffRole{
	StaffRoleAdmin,
	StaffRoleStaff,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validStaffRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
