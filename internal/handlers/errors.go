package handlers

import (
	"errors"
	"log"
	"strconv"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/utils"
	"lumbung/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindInvalidState:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as the JSON error envelope. Errors outside the
// domain taxonomy are logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	de, ok := apperrors.As(err)
	if !ok || de.Kind == apperrors.KindInternal {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return response.ServerError(c, "internal server error")
	}
	return response.Error(c, statusFor(de.Kind), de.Code, de.Message)
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes or oversized bodies, in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "http_error"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "not_found"
		case fiber.StatusRequestEntityTooLarge:
			code = "payload_too_large"
		case fiber.StatusMethodNotAllowed:
			code = "method_not_allowed"
		}
		return response.Error(c, fe.Code, code, fe.Message)
	}
	return respondError(c, err)
}

// identity returns the authenticated caller.
func identity(c *fiber.Ctx) (models.Identity, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return models.Identity{}, apperrors.Unauthenticated("unauthenticated", "authentication required")
	}
	return claims.Identity(), nil
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid_id", "invalid %s", name)
	}
	return uint(id), nil
}

// parseBody decodes the request body into out. An empty body leaves out
// untouched when optional is set.
func parseBody(c *fiber.Ctx, out interface{}, optional bool) error {
	if optional && len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("invalid_body", "invalid request body")
	}
	return nil
}
