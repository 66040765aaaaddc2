package helpers

import (
	"rental-service/internal/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

type Response struct {
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func RespSuccess(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	return RespSuccessWithStatus(ctx, log, fiber.StatusOK, data, message)
}

func RespCreated(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	return RespSuccessWithStatus(ctx, log, fiber.StatusCreated, data, message)
}

func RespSuccessWithStatus(ctx *fiber.Ctx, log *otelzap.Logger, status int, data interface{}, message string) error {
	log.Ctx(ctx.UserContext()).Info(message, zap.String("path", ctx.Path()), zap.Int("status", status))
	return ctx.Status(status).JSON(Response{
		Message: message,
		Data:    data,
	})
}

// RespError writes err with the status carried by a CustomError, 500 otherwise.
// Internal details of unknown errors never leave the service.
func RespError(ctx *fiber.Ctx, log *otelzap.Logger, err error) error {
	ce, ok := errors.As(err)
	if !ok {
		log.Ctx(ctx.UserContext()).Error("unhandled error", zap.Error(err), zap.String("path", ctx.Path()))
		return ctx.Status(fiber.StatusInternalServerError).JSON(Response{
			Message: "internal server error",
		})
	}

	return ctx.Status(ce.Code).JSON(Response{
		Message: ce.Message,
		Errors:  ce.Fields,
	})
}
