// Package user provides handlers for user administration and role assignment.
package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/web/handler"
)

const (
	// Path is the base path for user administration.
	Path = handler.RootPath + "users"
)

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	cfg         *config.Config
	authService *auth.Service
}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACAFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.authService = authService

	var (
		canRead       = auth.Require(auth.HasPermission(auth.PermUserRead))
		canUpdate     = auth.Require(auth.HasPermission(auth.PermUserUpdate))
		canDelete     = auth.Require(auth.HasPermission(auth.PermUserDelete))
		canAssignRole = auth.Require(auth.And(
			auth.HasPermission(auth.PermUserUpdate),
			auth.HasPermission(auth.PermRoleUpdate),
		))
		isAdmin = auth.Require(auth.AnyRole(auth.RoleAdmin))
	)

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, canRead, s.List)
		router.Post(handler.RouterRootPath, isAdmin, s.Create)
		router.Get("/username/:username", canRead, s.GetByUsername)
		router.Get("/:id", canRead, s.Get)
		router.Delete("/:id", canDelete, s.Delete)
		router.Post("/:id/enable", canUpdate, s.Enable)
		router.Post("/:id/disable", canUpdate, s.Disable)
		router.Post("/:id/roles/:roleName", canAssignRole, s.AssignRole)
		router.Delete("/:id/roles/:roleName", canAssignRole, s.RemoveRole)
	})

	return nil
}

// List answers all users.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := s.authService.ListUsers(c.UserContext())
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(users)
}

// Create adds a user with the default role.
func (s *Service) Create(c *fiber.Ctx) error {
	in := new(auth.CreateUserRequest)

	if err := handler.ParseBody(c, in); err != nil {
		return handler.Error(c, err)
	}

	v, err := s.authService.CreateUser(c.UserContext(), *in)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("username", v.Username).Str("by", actor(c)).Msg("user created")

	return c.Status(fiber.StatusCreated).JSON(v)
}

// Get answers one user by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Error(c, err)
	}

	v, err := s.authService.GetUser(c.UserContext(), id)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(v)
}

// GetByUsername answers one user by username.
func (s *Service) GetByUsername(c *fiber.Ctx) error {
	v, err := s.authService.GetUserByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(v)
}

// Delete removes a user. Its roles stay in the registry.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Error(c, err)
	}

	if err = s.authService.DeleteUser(c.UserContext(), id); err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("user_id", id).Str("by", actor(c)).Msg("user deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// Enable switches the account on.
func (s *Service) Enable(c *fiber.Ctx) error {
	return s.setEnabled(c, true)
}

// Disable switches the account off.
func (s *Service) Disable(c *fiber.Ctx) error {
	return s.setEnabled(c, false)
}

func (s *Service) setEnabled(c *fiber.Ctx, enabled bool) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Error(c, err)
	}

	v, err := s.authService.SetEnabled(c.UserContext(), id, enabled)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("user_id", id).Bool("enabled", enabled).Str("by", actor(c)).Msg("user enablement changed")

	return c.JSON(v)
}

// AssignRole grants the path role and answers the refreshed user.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Error(c, err)
	}

	v, err := s.authService.AssignRole(c.UserContext(), id, c.Params("roleName"))
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("user_id", id).Str("role", c.Params("roleName")).Str("by", actor(c)).Msg("role assigned")

	return c.JSON(v)
}

// RemoveRole revokes the path role and answers the refreshed user.
func (s *Service) RemoveRole(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.Error(c, err)
	}

	v, err := s.authService.RemoveRole(c.UserContext(), id, c.Params("roleName"))
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Uint64("user_id", id).Str("role", c.Params("roleName")).Str("by", actor(c)).Msg("role removed")

	return c.JSON(v)
}

func actor(c *fiber.Ctx) string {
	if p := auth.PrincipalFromContext(c); p != nil {
		return p.Username
	}

	return ""
}
