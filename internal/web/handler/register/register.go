// Package register provides the self-service registration endpoint.
package register

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	"github.com/userservice/userservice/internal/web/handler"
)

const (
	// Path is the path to the registration endpoint.
	Path = "/auth/register"
)

// Service is the registration handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	authService *auth.Service
}

// Init initializes the registration handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACAFatalLogMsg)
		return nil
	}

	s.cfg = cfg
	s.authService = authService

	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Post registers a new user with the default role.
// Success and duplicate rejections share the {success, message} body.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(auth.RegisterRequest)

	if err := handler.ParseBody(c, in); err != nil {
		return handler.Error(c, err)
	}

	res, err := s.authService.Register(c.UserContext(), *in)
	if err != nil {
		return handler.Error(c, err)
	}

	log.Info().Str("username", in.Username).Msg("user registered")

	return c.JSON(res)
}
