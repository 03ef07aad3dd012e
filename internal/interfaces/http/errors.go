package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/invoice-builder-api/internal/application/dto"
	"github.com/jhoicas/invoice-builder-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP con el cuerpo dto.ErrorResponse.
// Los errores no reconocidos se registran y se devuelven como INTERNAL sin detalle.
func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError && body.Code == "INTERNAL" {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		ve *domain.ValidationError
		le *domain.LoadError
		se *domain.SubmissionError
		re *domain.RenderError
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error(), Fields: ve.Fields}
	case errors.As(err, &le):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "LOAD_FAILED", Message: le.Error()}
	case errors.As(err, &se):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "SUBMISSION_FAILED", Message: se.Error()}
	case errors.As(err, &re):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "RENDER_FAILED", Message: re.Error()}
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "SUBMISSION_IN_PROGRESS", Message: err.Error()}
	case errors.Is(err, domain.ErrSessionNotReady):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "SESSION_NOT_READY", Message: err.Error()}
	case errors.Is(err, domain.ErrNoActiveSection), errors.Is(err, domain.ErrSectionMismatch):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EDITOR_STATE", Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownSection):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "UNKNOWN_SECTION", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrItemNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}
