package auth

import "fmt"

// PermissionName is one entry of the closed permission catalog.
type PermissionName string

// Permission constants define the available permissions in the system.
const (
	// PermUserRead allows reading user accounts.
	PermUserRead PermissionName = "USER_READ"
	// PermUserUpdate allows changing user accounts.
	PermUserUpdate PermissionName = "USER_UPDATE"
	// PermUserDelete allows deleting user accounts.
	PermUserDelete PermissionName = "USER_DELETE"
	// PermRoleRead allows reading roles.
	PermRoleRead PermissionName = "ROLE_READ"
	// PermRoleUpdate allows changing role assignments.
	PermRoleUpdate PermissionName = "ROLE_UPDATE"
	// PermViewDashboard allows viewing the dashboard.
	PermViewDashboard PermissionName = "VIEW_DASHBOARD"
)

// RoleName is one entry of the closed role registry.
type RoleName string

// Role constants define the available roles in the system.
const (
	RoleAdmin   RoleName = "ROLE_ADMIN"
	RoleManager RoleName = "ROLE_MANAGER"
	RoleUser    RoleName = "ROLE_USER"
	RoleGuest   RoleName = "ROLE_GUEST"
)

// DefaultRole is granted to every registered or administratively created user.
const DefaultRole = RoleUser

// AllPermissionNames lists the catalog in declaration order.
func AllPermissionNames() []PermissionName {
	return []PermissionName{
		PermUserRead,
		PermUserUpdate,
		PermUserDelete,
		PermRoleRead,
		PermRoleUpdate,
		PermViewDashboard,
	}
}

// AllRoleNames lists the registry in declaration order.
func AllRoleNames() []RoleName {
	return []RoleName{RoleAdmin, RoleManager, RoleUser, RoleGuest}
}

// DefaultRolePermissions is the reference role to permission graph seeded at initialization.
func DefaultRolePermissions() map[RoleName][]PermissionName {
	return map[RoleName][]PermissionName{
		RoleAdmin:   AllPermissionNames(),
		RoleManager: {PermUserRead, PermUserUpdate, PermRoleRead, PermViewDashboard},
		RoleUser:    {PermUserRead, PermViewDashboard},
		RoleGuest:   {PermUserRead},
	}
}

// ParsePermissionName accepts exactly one of the catalog names.
func ParsePermissionName(s string) (PermissionName, error) {
	for _, p := range AllPermissionNames() {
		if string(p) == s {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPermissionName, s)
}

// ParseRoleName accepts exactly one of the registry names.
func ParseRoleName(s string) (RoleName, error) {
	for _, r := range AllRoleNames() {
		if string(r) == s {
			return r, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidRoleName, s)
}

// Description is the catalog text stored alongside the permission.
func (p PermissionName) Description() string {
	return "Permission for " + string(p)
}

// Description is the registry text stored alongside the role.
func (r RoleName) Description() string {
	switch r {
	case RoleAdmin:
		return "Administrator with full access"
	case RoleManager:
		return "Manager with limited access"
	case RoleUser:
		return "Regular user with basic access"
	case RoleGuest:
		return "Guest with minimal access"
	default:
		return string(r)
	}
}
