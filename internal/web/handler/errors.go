package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/userservice/userservice/internal/auth"
)

var (
	// ErrInvalidID is returned when a path id is not a positive integer.
	ErrInvalidID = errors.New("invalid id")

	// ErrInvalidBody is returned when the request body cannot be parsed.
	ErrInvalidBody = errors.New("invalid request body")
)

const msgInternalServerError = "Internal server error"

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  []auth.FieldError `json:"errors,omitempty"`
}

// Status maps an error to the HTTP status and the message shown to the caller.
// Storage and other unexpected failures become a generic 500.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrAccountDisabled):
		return fiber.StatusUnauthorized, auth.ErrAccountDisabled.Error()
	case errors.Is(err, auth.ErrTokenExpired):
		return fiber.StatusUnauthorized, auth.ErrTokenExpired.Error()
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnauthorized):
		return fiber.StatusUnauthorized, auth.ErrUnauthorized.Error()
	case errors.Is(err, auth.ErrForbidden):
		return fiber.StatusForbidden, auth.ErrForbidden.Error()
	case errors.Is(err, auth.ErrDuplicateUsername):
		return fiber.StatusConflict, auth.ErrDuplicateUsername.Error()
	case errors.Is(err, auth.ErrDuplicateEmail):
		return fiber.StatusConflict, auth.ErrDuplicateEmail.Error()
	case errors.Is(err, auth.ErrInvalidRoleName),
		errors.Is(err, auth.ErrValidation),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	default:
		return fiber.StatusInternalServerError, msgInternalServerError
	}
}

// Error answers the request with the mapped status and a JSON body.
func Error(c *fiber.Ctx, err error) error {
	status, msg := Status(err)

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	body := ErrorBody{Message: msg}

	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Fields
	}

	return c.Status(status).JSON(body)
}

// ParseID reads a positive integer path parameter.
func ParseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

// ParseBody decodes the JSON body into out.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return ErrInvalidBody
	}

	return nil
}
