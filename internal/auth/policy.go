package auth

import (
	"fmt"
	"strings"
)

// Decision is the outcome of an access check.
type Decision bool

const (
	// Deny refuses access.
	Deny Decision = false
	// Allow grants access.
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "allow"
	}

	return "deny"
}

// Requirement is a required-authority expression attached to a protected operation.
type Requirement interface {
	Satisfied(set AuthoritySet) bool
	String() string
}

type anyRole []RoleName

// AnyRole is satisfied when at least one of the roles is held. With no roles it never is.
func AnyRole(roles ...RoleName) Requirement {
	return anyRole(roles)
}

func (r anyRole) Satisfied(set AuthoritySet) bool {
	for _, role := range r {
		if set.HasRole(role) {
			return true
		}
	}

	return false
}

func (r anyRole) String() string {
	names := make([]string, len(r))
	for i, role := range r {
		names[i] = string(role)
	}

	return "anyRole(" + strings.Join(names, ",") + ")"
}

type allPermissions []PermissionName

// AllPermissions is satisfied when every permission is reachable. With no permissions it never is.
func AllPermissions(perms ...PermissionName) Requirement {
	return allPermissions(perms)
}

// HasPermission is satisfied when the single permission is reachable.
func HasPermission(p PermissionName) Requirement {
	return allPermissions{p}
}

func (r allPermissions) Satisfied(set AuthoritySet) bool {
	if len(r) == 0 {
		return false
	}

	for _, p := range r {
		if !set.HasPermission(p) {
			return false
		}
	}

	return true
}

func (r allPermissions) String() string {
	names := make([]string, len(r))
	for i, p := range r {
		names[i] = string(p)
	}

	return "allPermissions(" + strings.Join(names, ",") + ")"
}

type and []Requirement

// And is satisfied when all requirements are. With no requirements it never is.
func And(reqs ...Requirement) Requirement {
	return and(reqs)
}

func (r and) Satisfied(set AuthoritySet) bool {
	if len(r) == 0 {
		return false
	}

	for _, req := range r {
		if !req.Satisfied(set) {
			return false
		}
	}

	return true
}

func (r and) String() string {
	return join("and", r)
}

type or []Requirement

// Or is satisfied when at least one requirement is. With no requirements it never is.
func Or(reqs ...Requirement) Requirement {
	return or(reqs)
}

func (r or) Satisfied(set AuthoritySet) bool {
	for _, req := range r {
		if req.Satisfied(set) {
			return true
		}
	}

	return false
}

func (r or) String() string {
	return join("or", r)
}

type authenticated struct{}

// Authenticated is satisfied by any verified principal, including one without roles.
func Authenticated() Requirement {
	return authenticated{}
}

func (authenticated) Satisfied(AuthoritySet) bool { return true }

func (authenticated) String() string { return "authenticated" }

func join(op string, reqs []Requirement) string {
	parts := make([]string, len(reqs))
	for i, req := range reqs {
		parts[i] = req.String()
	}

	return op + "(" + strings.Join(parts, ",") + ")"
}

// Decide evaluates the requirement against the presented authorities.
func Decide(set AuthoritySet, req Requirement) Decision {
	decision := Decision(req != nil && req.Satisfied(set))
	observeDecision(decision)

	return decision
}

// Authorize returns nil on Allow and an error wrapping ErrForbidden on Deny.
func Authorize(set AuthoritySet, req Requirement) error {
	if Decide(set, req) == Deny {
		return fmt.Errorf("%w: requires %s", ErrForbidden, req)
	}

	return nil
}
