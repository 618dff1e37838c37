package http

import (
	"errors"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/contable-pro/internal/application/dto"
	"github.com/tu-usuario/contable-pro/internal/domain"
	"github.com/tu-usuario/contable-pro/pkg/logger"
)

// NewErrorHandler devuelve el manejador central de errores de Fiber: el
// único punto que produce el envelope de error. Los errores operacionales
// (4xx) se loguean como warning con contexto mínimo; los no operacionales
// como error con el contexto completo de la petición.
func NewErrorHandler(log *logger.Logger, env string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *domain.Error
		if errors.As(err, &appErr) {
			logAppError(log, c, appErr)
			return c.Status(appErr.Status).JSON(dto.ErrorResponse{Error: dto.ErrorBody{
				Code:    appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
				Field:   appErr.Field,
				Rule:    appErr.Rule,
			}})
		}

		// Por si una validación escapa sin traducir en alguna capa.
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: dto.ErrorBody{
				Code:    domain.CodeValidation,
				Message: "datos de entrada inválidos",
				Details: dto.TranslateFieldErrors(vErrs),
			}})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			switch fiberErr.Code {
			case fiber.StatusNotFound:
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: dto.ErrorBody{
					Code: "RUTA_NO_ENCONTRADA", Message: "la ruta solicitada no existe",
				}})
			case fiber.StatusRequestEntityTooLarge:
				return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Error: dto.ErrorBody{
					Code: "CUERPO_DEMASIADO_GRANDE", Message: "el cuerpo de la petición supera el límite permitido",
				}})
			}
		}

		// Error inesperado: contexto completo para diagnóstico.
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int64("user_id", GetUserID(c)).
			Bytes("body", c.Body()).
			Msg("error no operacional")

		body := dto.ErrorBody{Code: domain.CodeInternal, Message: "error interno del servidor"}
		if env == "development" {
			body.Message = err.Error()
			body.Stack = string(debug.Stack())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: body})
	}
}

func logAppError(log *logger.Logger, c *fiber.Ctx, appErr *domain.Error) {
	if appErr.Status < 500 {
		log.Warn().
			Str("code", appErr.Code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg(appErr.Message)
		return
	}
	log.Error().
		Str("code", appErr.Code).
		Str("method", c.Method()).
		Str("path", c.OriginalURL()).
		Int64("user_id", GetUserID(c)).
		Bytes("body", c.Body()).
		Msg(appErr.Message)
}
