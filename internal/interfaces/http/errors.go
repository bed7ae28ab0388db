package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
)

// domainError mapea los errores de dominio comunes a respuestas HTTP. Los
// handlers interceptan antes sus errores tipados (borradores bloqueantes,
// conflicto de bloqueo) porque llevan cuerpo propio.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrBatchRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BATCH_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrExpiryRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EXPIRY_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownUnit):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_UNIT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrSessionExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SESSION_EXISTS", Message: err.Error()})
	case errors.Is(err, domain.ErrEntryApproved):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ENTRY_APPROVED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicateShelf):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_SHELF", Message: err.Error()})
	case errors.Is(err, domain.ErrShelfEmpty):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SHELF_EMPTY", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrSessionNotActive):
		// 412: la precondición "sesión activa" no se cumple.
		return c.Status(fiber.StatusPreconditionFailed).JSON(dto.ErrorResponse{Code: "SESSION_NOT_ACTIVE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
