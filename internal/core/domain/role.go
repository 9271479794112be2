package domain

// Role is an ordered privilege tier. Lower value = more privilege, so
// "at least Admin" means position <= RoleAdmin.
type Role int

const (
	RoleSuperAdmin Role = 1
	RoleAdmin      Role = 2
	RoleManager    Role = 3
	RoleEmployee   Role = 4
	RoleGuest      Role = 5
)

// DefaultRole is assigned to newly created accounts when none is given.
const DefaultRole = RoleEmployee

var roleNames = map[Role]string{
	RoleSuperAdmin: "Super Admin",
	RoleAdmin:      "Admin",
	RoleManager:    "Manager",
	RoleEmployee:   "Employee",
	RoleGuest:      "Guest",
}

// rolePermissions is the fixed permission table. Permissions are derived from
// the role on demand and never persisted.
var rolePermissions = map[Role][]string{
	RoleSuperAdmin: {
		"manage_all_users",
		"manage_system_settings",
		"view_all_data",
		"delete_any_data",
		"manage_roles",
		"system_maintenance",
	},
	RoleAdmin: {
		"manage_users",
		"view_all_data",
		"delete_user_data",
		"manage_content",
		"view_reports",
	},
	RoleManager: {
		"manage_team",
		"view_team_data",
		"create_content",
		"edit_content",
		"view_reports",
	},
	RoleEmployee: {
		"view_own_data",
		"edit_own_profile",
		"create_content",
		"view_public_content",
	},
	RoleGuest: {
		"view_public_content",
		"edit_own_profile",
	},
}

// Valid reports whether r is one of the five defined tiers.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Name returns the display name of the role, or "Unknown" for undefined tiers.
func (r Role) Name() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Permissions returns a copy of the permission set for the role. Undefined
// tiers have no permissions.
func (r Role) Permissions() []string {
	perms, ok := rolePermissions[r]
	if !ok {
		return []string{}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role's permission set contains p.
func (r Role) HasPermission(p string) bool {
	for _, perm := range rolePermissions[r] {
		if perm == p {
			return true
		}
	}
	return false
}

// AtLeast reports whether r is at least as privileged as required.
func (r Role) AtLeast(required Role) bool {
	return r <= required
}
