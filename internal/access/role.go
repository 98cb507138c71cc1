// Package access resolves workshop roles and decides what each role may see
// and do. Callers never branch on raw role or group strings; they ask this
// package instead.
package access

import (
	"strings"
	"unicode"
	"workshop_manager/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var groupRoles = map[string]models.Role{
	"encargado":           models.RoleManager,
	"encargado de taller": models.RoleManager,
	"manager":             models.RoleManager,
	"shop manager":        models.RoleManager,
	"mecanico":            models.RoleMechanic,
	"mechanic":            models.RoleMechanic,
	"recepcionista":       models.RoleFrontDesk,
	"front desk":          models.RoleFrontDesk,
	"front_desk":          models.RoleFrontDesk,
	"frontdesk":           models.RoleFrontDesk,
	"receptionist":        models.RoleFrontDesk,
}

// NormalizeName lowercases s, trims it and strips diacritics, so that
// "Mecánico" and "mecanico" compare equal.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// RoleForGroup maps a group name to a role. ok is false for unknown groups.
func RoleForGroup(name string) (models.Role, bool) {
	role, ok := groupRoles[NormalizeName(name)]
	return role, ok
}

// ResolveRole picks the workshop role of a user: the profile role when set,
// then the first group that maps to a role, then front desk. Missing users
// and deactivated accounts or profiles resolve to RoleUnknown.
func ResolveRole(user *models.User) models.Role {
	if user == nil || !user.IsActive {
		return models.RoleUnknown
	}
	if user.IsSuperuser {
		return models.RoleManager
	}
	if user.Profile != nil {
		if !user.Profile.Active {
			return models.RoleUnknown
		}
		if role := models.Role(NormalizeName(string(user.Profile.Role))); role.Valid() {
			return role
		}
	}
	for _, group := range user.Groups {
		if role, ok := RoleForGroup(group.Name); ok {
			return role
		}
	}
	return models.RoleFrontDesk
}

// RoleFromGroups resolves the role a new account gets from its groups.
func RoleFromGroups(groups []string) models.Role {
	for _, name := range groups {
		if role, ok := RoleForGroup(name); ok {
			return role
		}
	}
	return models.RoleFrontDesk
}

var landingPaths = map[models.Role]string{
	models.RoleManager:   "/dashboard",
	models.RoleMechanic:  "/dashboard/mechanic",
	models.RoleFrontDesk: "/dashboard/front-desk",
}

// NoAccessPath is where callers without a resolvable role are sent.
const NoAccessPath = "/no-access"

// LandingPath is the post-login page for role. A profile override wins for
// any resolvable role.
func LandingPath(role models.Role, profile *models.UserProfile) string {
	path, ok := landingPaths[role]
	if !ok {
		return NoAccessPath
	}
	if profile != nil && profile.DashboardPath != "" {
		return profile.DashboardPath
	}
	return path
}
