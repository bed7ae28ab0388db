package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// LockHandler bloqueos de artículo para el conteo concurrente (protegido).
// Los clientes consultan List por polling para refrescar sus indicadores.
type LockHandler struct {
	uc *stocktake.LockUseCase
}

// NewLockHandler construye el handler de bloqueos.
func NewLockHandler(uc *stocktake.LockUseCase) *LockHandler {
	return &LockHandler{uc: uc}
}

// Acquire godoc
// @Summary      Reclamar el bloqueo de un artículo
// @Description  Si otro usuario lo tiene vigente responde 409 con el holder,
//
//	para que la UI muestre quién está contando el artículo.
//
// @Tags         locks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcquireLockRequest  true  "session_id, item_id"
// @Success      201   {object}  dto.LockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.LockConflictResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/stock-take/locks [post]
func (h *LockHandler) Acquire(c *fiber.Ctx) error {
	var in dto.AcquireLockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SessionID == "" || in.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id e item_id son requeridos"})
	}
	lock, err := h.uc.Acquire(c.Context(), in.SessionID, in.ItemID, GetUserID(c))
	if err != nil {
		var conflict *domain.LockConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.LockConflictResponse{
				Code:       "ITEM_LOCKED",
				Message:    conflict.Error(),
				ItemID:     conflict.ItemID,
				HeldBy:     conflict.HeldBy,
				HeldByName: conflict.HeldByName,
				ExpiresAt:  conflict.ExpiresAt,
			})
		}
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLockResponse(lock))
}

// Release godoc
// @Summary      Liberar el bloqueo de un artículo
// @Description  Idempotente: liberar un bloqueo ajeno o inexistente no falla.
// @Tags         locks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcquireLockRequest  true  "session_id, item_id"
// @Success      200   {object}  map[string]string
// @Router       /api/stock-take/locks/release [post]
func (h *LockHandler) Release(c *fiber.Ctx) error {
	var in dto.AcquireLockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	h.uc.Release(c.Context(), in.SessionID, in.ItemID, GetUserID(c))
	return c.JSON(fiber.Map{"message": "bloqueo liberado"})
}

// List godoc
// @Summary      Bloqueos vigentes de la sesión
// @Tags         locks
// @Security     Bearer
// @Produce      json
// @Param        session_id  query  string  true  "ID de la sesión"
// @Success      200  {array}   dto.LockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-take/locks [get]
func (h *LockHandler) List(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id es requerido"})
	}
	locks := h.uc.List(c.Context(), sessionID)
	out := make([]dto.LockResponse, 0, len(locks))
	for _, l := range locks {
		out = append(out, toLockResponse(l))
	}
	return c.JSON(out)
}

func toLockResponse(l *entity.ItemLock) dto.LockResponse {
	return dto.LockResponse{
		SessionID:  l.SessionID,
		ItemID:     l.ItemID,
		HeldBy:     l.HolderUserID,
		HeldByName: l.HolderName,
		AcquiredAt: l.AcquiredAt,
		ExpiresAt:  l.ExpiresAt,
	}
}
