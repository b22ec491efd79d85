package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the username is unknown or the password does not match.
	// Both cases share this error so callers cannot probe for existing usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is returned for a known user whose account is disabled.
	ErrAccountDisabled = errors.New("user account is disabled")

	// ErrDuplicateUsername is returned when registering a username that is already taken.
	ErrDuplicateUsername = errors.New("Username is already taken!") //nolint:stylecheck,revive // shown to the caller as is

	// ErrDuplicateEmail is returned when registering an email that is already in use.
	ErrDuplicateEmail = errors.New("Email is already in use!") //nolint:stylecheck,revive // shown to the caller as is

	// ErrNotFound is the family of lookup failures. ErrUserNotFound, ErrRoleNotFound and
	// ErrInvalidRoleName all match it with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when a principal cannot be found.
	ErrUserNotFound = &kindError{msg: "user not found", kind: ErrNotFound}

	// ErrRoleNotFound is returned when a recognized role is missing from the registry.
	ErrRoleNotFound = &kindError{msg: "role not found", kind: ErrNotFound}

	// ErrInvalidRoleName is returned for a role name outside the closed registry.
	ErrInvalidRoleName = &kindError{msg: "invalid role name", kind: ErrNotFound}

	// ErrInvalidPermissionName is returned for a permission name outside the closed catalog.
	ErrInvalidPermissionName = errors.New("invalid permission name")

	// ErrForbidden is returned when an authority check denies access.
	ErrForbidden = errors.New("access denied")

	// ErrUnauthorized is returned when a protected call carries no verified principal.
	ErrUnauthorized = errors.New("authentication required")

	// ErrInvalidToken is returned for malformed, tampered or foreign tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrValidation is returned for malformed input fields.
	ErrValidation = errors.New("validation failed")
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
