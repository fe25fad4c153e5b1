package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
)

const reauthorizeHint = "freee authorization required, start again at /api/v1/oauth/authorize"

// statusFor maps an error to the HTTP status and error code returned to clients
func statusFor(err error) (int, string) {
	var ve *apperror.ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, apperror.ErrTemplateNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case apperror.IsAuth(err):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	if _, ok := apperror.AsHTTP(err); ok {
		return fiber.StatusBadGateway, "FREEE_API_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR"
}

// respondError writes err with the status it maps to
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	message := err.Error()
	if apperror.IsAuth(err) {
		message = reauthorizeHint
	}
	return respondErrorMessage(c, logger, err, message)
}

func respondErrorMessage(c *fiber.Ctx, logger *zap.Logger, err error, message string) error {
	status, code := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(entity.NewErrorResponse(code, message))
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(
		entity.NewErrorResponse("BAD_REQUEST", message),
	)
}
