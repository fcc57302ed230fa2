package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"campusevents_backend/internals/helpers/apperr"
	"campusevents_backend/internals/logger"
)

// FromError renders any handler error in the standard envelope.
// *apperr.Error and *fiber.Error keep their status; anything else is a 500.
// Internal detail is only exposed when devMode is set.
func FromError(c *fiber.Ctx, err error, devMode bool) error {
	if err == nil {
		return nil
	}

	if ae, ok := apperr.As(err); ok {
		if ae.Kind == apperr.KindValidation {
			return JsonValidationError(c, ae.Message, ae.Fields)
		}
		if ae.Kind == apperr.KindInternal {
			return internalError(c, err, devMode)
		}
		return JsonError(c, ae.Kind.HTTPStatus(), ae.Message)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return internalError(c, err, devMode)
		}
		return JsonError(c, fe.Code, fe.Message)
	}

	return internalError(c, err, devMode)
}

func internalError(c *fiber.Ctx, err error, devMode bool) error {
	logger.Ctx(c.UserContext()).Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	resp := ErrorResponse{
		Success:   false,
		Message:   "internal server error",
		ErrorCode: "INTERNAL_ERROR",
	}
	if devMode {
		resp.Detail = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(resp)
}

// ErrorHandler plugs FromError into fiber.Config.
func ErrorHandler(devMode bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return FromError(c, err, devMode)
	}
}
