package constants

import (
	"fmt"
	"strings"
)

const (
	RoleAdmin    = "admin"
	RoleDirector = "Director"
	RoleLeader   = "Leader"
	RoleEmployee = "employee"
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess   = "❌ Only admins may access %s."
	ErrOnlyManagersCanAccess = "❌ Only an admin, Director or Leader may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorManager(feature string) string {
	return fmt.Sprintf(ErrOnlyManagersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleDirector,
		RoleLeader,
		RoleEmployee,
	}

	// ElevatedRoles may be assigned as an evaluator.
	ElevatedRoles = []string{
		RoleDirector,
		RoleLeader,
	}

	ManagerAndAbove = []string{
		RoleAdmin,
		RoleDirector,
		RoleLeader,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

// HasRole matches case-insensitively.
func HasRole(role string, allowed []string) bool {
	role = strings.TrimSpace(role)
	for _, a := range allowed {
		if strings.EqualFold(role, a) {
			return true
		}
	}
	return false
}

func IsElevated(role string) bool { return HasRole(role, ElevatedRoles) }

func IsAdmin(role string) bool { return HasRole(role, AdminOnly) }
