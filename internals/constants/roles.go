package constants

import (
	"fmt"
	"strings"
)

// Role is the closed set of platform roles. Anything else never authorizes.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "ORGANIZER"
	RoleStudent   Role = "STUDENT"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleOrganizer, RoleStudent}

// ParseRole accepts any casing and surrounding spaces.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOrganizer:
		return RoleOrganizer, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// Valid is strict: only the exact canonical spelling counts.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleStudent:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// LandingPath is the dashboard home of each role.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/dashboard/admin"
	case RoleOrganizer:
		return "/dashboard/organiser"
	case RoleStudent:
		return "/dashboard/student"
	}
	return "/auth/login"
}

// Role gate messages
const (
	ErrOnlyAdminsCanAccess     = "❌ Only college admins can access %s."
	ErrOnlyOrganizersCanAccess = "❌ Only admins or organizers can access %s."
	ErrOnlyStudentsCanAccess   = "❌ Only students can access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOrganizer(feature string) string {
	return fmt.Sprintf(ErrOnlyOrganizersCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices (route guards)
// ==========================
var (
	AdminOnly      = []Role{RoleAdmin}
	OrganizerAndUp = []Role{RoleAdmin, RoleOrganizer}
	StudentOnly    = []Role{RoleStudent}
)
