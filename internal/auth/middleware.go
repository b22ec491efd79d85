package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	accesslog "github.com/userservice/userservice/internal/logger/adapter/fiber"
)

// PrincipalLocal is the fiber.Locals key of the verified *Principal.
const PrincipalLocal = "principal"

// MessageResponse is the JSON body of every error answered by the middleware.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Authenticate creates Fiber middleware that verifies an optional bearer token.
// A request without Authorization header passes unauthenticated; a bad token is rejected with 401.
func Authenticate(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		// the scheme is case-insensitive
		scheme, raw, ok := strings.Cut(header, " ")
		raw = strings.TrimSpace(raw)

		if !ok || !strings.EqualFold(scheme, TokenType) || raw == "" {
			return unauthorized(c, "Malformed authorization header")
		}

		principal, err := authService.ParseToken(raw)
		if err != nil {
			log.Debug().Err(err).Str("ip", c.IP()).Msg("token rejected")

			if errors.Is(err, ErrTokenExpired) {
				return unauthorized(c, "Token expired")
			}

			return unauthorized(c, "Invalid token")
		}

		c.Locals(PrincipalLocal, principal)
		c.Locals(accesslog.UsernameLocal, principal.Username)

		return c.Next()
	}
}

// Require creates Fiber middleware that enforces the requirement on the verified principal.
func Require(req Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFromContext(c)
		if principal == nil {
			return unauthorized(c, "Unauthorized")
		}

		if err := Authorize(principal.Authorities, req); err != nil {
			log.Warn().Uint64("user_id", principal.ID).Str("requirement", req.String()).
				Msg("User lacks required authority")

			return c.Status(fiber.StatusForbidden).JSON(MessageResponse{
				Message: "Forbidden: You don't have permission to access this resource",
			})
		}

		return c.Next()
	}
}

// PrincipalFromContext returns the verified principal of the request, or nil.
func PrincipalFromContext(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(PrincipalLocal).(*Principal) //nolint:errcheck

	return p
}

func unauthorized(c *fiber.Ctx, msg string) error {
	c.Set(fiber.HeaderWWWAuthenticate, TokenType)

	return c.Status(fiber.StatusUnauthorized).JSON(MessageResponse{Message: msg})
}
