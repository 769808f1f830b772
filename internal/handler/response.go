package handler

import (
	"errors"

	"salesnexus/internal/apperror"
	"salesnexus/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Envelope wraps every JSON response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func created(c *fiber.Ctx, data interface{}, msg string) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data, Message: msg})
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(Envelope{Success: true, Message: msg})
}

// Helper untuk parse UUID dari path
func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid %s", param)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid JSON body: %s", err.Error())
	}
	return nil
}

// ErrorHandler renders every error returned by a handler into the envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = apperror.CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = apperror.CodeValidation
			case fiber.StatusInternalServerError:
				code = "SERVER_ERROR"
			}
			return c.Status(fe.Code).JSON(Envelope{Error: &ErrorBody{Code: code, Message: fe.Message}})
		}

		appErr := apperror.From(err)
		if appErr.Kind == apperror.KindPersistence {
			middleware.Logger(c, log).Error("Unhandled persistence error",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(appErr.Status()).JSON(Envelope{
			Error: &ErrorBody{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
		})
	}
}
