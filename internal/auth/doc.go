// Package auth provides authentication and authorization functionality for the application.
//
// The authorization model is a closed role registry and permission catalog:
//   - Users hold any number of roles
//   - Roles contain a set of permissions
//   - The authority set of a user is every held role plus every permission reachable through them
//
// # Authentication
//
// Service.Login checks a username and password with the configured Hasher
// (argon2id, with bcrypt verification for imported hashes), derives the authority
// set from storage and issues a signed HS256 bearer token. Tokens are stateless;
// a role change takes effect at the next login.
//
// # Authorization
//
// Protected operations declare a Requirement built from AnyRole, AllPermissions,
// HasPermission, And and Or. Decide and Authorize evaluate it against the
// authorities recovered from a verified token. Role and permission grants are
// tagged separately so a role can never satisfy a permission check.
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - Authenticate: Verify the bearer token and store the principal in fiber.Locals
//   - Require: Answer 401 without a principal and 403 when the requirement is not met
//
// Example usage:
//
//	authService, err := auth.NewService(db, hasher, auth.NewIssuer(secret, "userservice", 24*time.Hour))
//	if err != nil {
//	    return err
//	}
//
//	app.Use(auth.Authenticate(authService))
//	app.Delete("/users/:id",
//	    auth.Require(auth.HasPermission(auth.PermUserDelete)),
//	    handler,
//	)
package auth
