// Package dashboard provides the role gated dashboard endpoints and the caller's own profile.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/web/handler"
)

const (
	// Path is the path to the dashboard.
	Path = handler.RootPath + "dashboard"

	// AdminPath is the path to the admin dashboard.
	AdminPath = handler.RootPath + "admin/dashboard"

	// ManagerPath is the path to the manager dashboard.
	ManagerPath = handler.RootPath + "manager/dashboard"

	// MePath answers the profile of the caller.
	MePath = handler.RootPath + "me"
)

// Response is the dashboard body.
type Response struct {
	Message string `json:"message"`
	Access  string `json:"access"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	authService *auth.Service
}

// Init registers the dashboard routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACAFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.authService = authService

	app.Get(AdminPath, auth.Require(auth.AnyRole(auth.RoleAdmin)), static("Welcome to Admin Dashboard", "Admin Only"))
	app.Get(ManagerPath,
		auth.Require(auth.AnyRole(auth.RoleAdmin, auth.RoleManager)),
		static("Welcome to Manager Dashboard", "Admin and Manager Only"),
	)
	app.Get(Path,
		auth.Require(auth.HasPermission(auth.PermViewDashboard)),
		static("Welcome to Dashboard", "Users with "+string(auth.PermViewDashboard)),
	)
	app.Get(MePath, auth.Require(auth.Authenticated()), s.Me)

	return nil
}

func static(message, access string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(Response{Message: message, Access: access})
	}
}

// Me answers the stored profile of the caller, which may differ from the token snapshot
// after a role change.
func (s *Service) Me(c *fiber.Ctx) error {
	p := auth.PrincipalFromContext(c)

	v, err := s.authService.GetUser(c.UserContext(), p.ID)
	if err != nil {
		return handler.Error(c, err)
	}

	return c.JSON(v)
}
