package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

// response is the JSON envelope of every /api answer.
type response struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	ID          *int64            `json:"id,omitempty"`
	ModelErrors map[string]string `json:"modelErrors,omitempty"`
	Code        string            `json:"code,omitempty"`
	Constraint  string            `json:"constraint,omitempty"`
	Detail      string            `json:"detail,omitempty"`
	Data        any               `json:"data,omitempty"`
	Total       *int              `json:"total,omitempty"`
}

// errorHandler translates the error taxonomy into a status and a failure envelope.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := translate(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed", "path", c.Path(), "request_id", c.GetRespHeader(fiber.HeaderXRequestID), "error", err)
		}
		return c.Status(status).JSON(body)
	}
}

func translate(err error) (int, response) {
	var (
		ve  *common.ValidationError
		ufe *common.UnsupportedFormatError
		nfe *common.NotFoundError
		cv  *common.ConstraintViolation
		fe  *fiber.Error
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, response{Message: ve.Message, ModelErrors: ve.Fields}
	case errors.As(err, &ufe):
		return fiber.StatusBadRequest, response{
			Message: "Formato de comprobante no permitido. Use pdf, jpg, jpeg o png.",
			Detail:  ufe.Ext,
		}
	case errors.Is(err, common.ErrUnauthenticated):
		return fiber.StatusUnauthorized, response{Message: "Sesión no válida. Inicie sesión nuevamente."}
	case errors.Is(err, common.ErrForbidden):
		return fiber.StatusForbidden, response{Message: "No tiene permiso para realizar esta acción."}
	case errors.As(err, &nfe):
		return fiber.StatusNotFound, response{Message: "El registro no existe."}
	case errors.As(err, &cv):
		return fiber.StatusConflict, response{
			Message:    "La operación viola una restricción de la base de datos.",
			Code:       cv.Code,
			Constraint: cv.Constraint,
			Detail:     cv.Detail,
		}
	case errors.Is(err, common.ErrDatabase):
		return fiber.StatusInternalServerError, response{Message: "Error al guardar en la base de datos."}
	case errors.As(err, &fe):
		return fe.Code, response{Message: fe.Message}
	default:
		return fiber.StatusInternalServerError, response{Message: "Error interno del servidor."}
	}
}
