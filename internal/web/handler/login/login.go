// Package login provides the credential login endpoint issuing bearer tokens.
package login

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/web/handler"
)

const (
	// Path is the path to the login endpoint.
	Path = "/auth/login"
)

// Request is the login body.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	authService *auth.Service
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACAFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.authService = authService

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Post checks the credentials and answers with a fresh token and the authority snapshot.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(Request)

	if err := handler.ParseBody(c, in); err != nil {
		return handler.Error(c, err)
	}

	if err := s.authService.Validate(in); err != nil {
		return handler.Error(c, err)
	}

	res, err := s.authService.Login(c.UserContext(), in.Username, in.Password)
	if err != nil {
		log.Info().Str("username", in.Username).Str("ip", c.IP()).Err(err).Msg("login failed")
		return handler.Error(c, err)
	}

	log.Info().Str("username", res.Username).Strs("roles", res.Roles).Msg("login succeeded")

	return c.JSON(res)
}
