package auth

import (
	"sort"

	"github.com/userservice/userservice/internal/db/models"
)

// AuthorityKind tags an authority as a role grant or a permission grant.
type AuthorityKind uint8

const (
	// RoleAuthority is a held role.
	RoleAuthority AuthorityKind = iota + 1
	// PermissionAuthority is a permission reachable through a held role.
	PermissionAuthority
)

func (k AuthorityKind) String() string {
	switch k {
	case RoleAuthority:
		return "role"
	case PermissionAuthority:
		return "permission"
	default:
		return "unknown"
	}
}

// Authority is a single grant used in access checks.
type Authority struct {
	Kind AuthorityKind
	Name string
}

// RoleGrant returns the authority for a held role.
func RoleGrant(r RoleName) Authority {
	return Authority{Kind: RoleAuthority, Name: string(r)}
}

// PermissionGrant returns the authority for a reachable permission.
func PermissionGrant(p PermissionName) Authority {
	return Authority{Kind: PermissionAuthority, Name: string(p)}
}

func (a Authority) String() string {
	return a.Kind.String() + ":" + a.Name
}

// AuthoritySet is the flattened, unordered set of grants of a principal.
type AuthoritySet map[Authority]struct{}

// NewAuthoritySet builds a set from role and permission names.
func NewAuthoritySet(roles, permissions []string) AuthoritySet {
	set := make(AuthoritySet, len(roles)+len(permissions))

	for _, r := range roles {
		set.Add(Authority{Kind: RoleAuthority, Name: r})
	}

	for _, p := range permissions {
		set.Add(Authority{Kind: PermissionAuthority, Name: p})
	}

	return set
}

// Add inserts the authority.
func (s AuthoritySet) Add(a Authority) {
	s[a] = struct{}{}
}

// Has reports whether the authority is in the set.
func (s AuthoritySet) Has(a Authority) bool {
	_, ok := s[a]
	return ok
}

// HasRole reports whether the role is held.
func (s AuthoritySet) HasRole(r RoleName) bool {
	return s.Has(RoleGrant(r))
}

// HasPermission reports whether the permission is reachable.
func (s AuthoritySet) HasPermission(p PermissionName) bool {
	return s.Has(PermissionGrant(p))
}

// Roles returns the sorted role names.
func (s AuthoritySet) Roles() []string {
	return s.names(RoleAuthority)
}

// Permissions returns the sorted permission names.
func (s AuthoritySet) Permissions() []string {
	return s.names(PermissionAuthority)
}

func (s AuthoritySet) names(kind AuthorityKind) []string {
	out := make([]string, 0, len(s))

	for a := range s {
		if a.Kind == kind {
			out = append(out, a.Name)
		}
	}

	sort.Strings(out)

	return out
}

// Derive flattens the roles of the user and every permission reachable through them
// into one set. Duplicates across roles collapse. Roles must be loaded with their permissions.
func Derive(user *models.User) AuthoritySet {
	set := make(AuthoritySet)
	if user == nil {
		return set
	}

	for _, role := range user.Roles {
		set.Add(Authority{Kind: RoleAuthority, Name: role.Name})

		for _, perm := range role.Permissions {
			set.Add(Authority{Kind: PermissionAuthority, Name: perm.Name})
		}
	}

	return set
}
