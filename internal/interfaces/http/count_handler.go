package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// CountHandler maneja el libro de conteos individuales (protegido).
type CountHandler struct {
	uc *stocktake.CountUseCase
}

// NewCountHandler construye el handler de conteos.
func NewCountHandler(uc *stocktake.CountUseCase) *CountHandler {
	return &CountHandler{uc: uc}
}

// Save godoc
// @Summary      Registrar un conteo
// @Description  Crea un conteo PENDING con snapshot del stock del sistema y
//
//	libera el bloqueo del artículo si el contador lo tenía.
//
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveCountRequest  true  "session_id, item_id, shelf_location, unit_name, quantity"
// @Success      201   {object}  dto.CountEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/stock-take/counts [post]
func (h *CountHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.SaveCount(c.Context(), stocktake.SaveCountInput{
		SessionID:     in.SessionID,
		ItemID:        in.ItemID,
		ShelfLocation: in.ShelfLocation,
		BatchNumber:   in.BatchNumber,
		ExpiryDate:    in.ExpiryDate,
		UnitName:      in.UnitName,
		Quantity:      in.Quantity,
		Notes:         in.Notes,
		CountedBy:     GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCountEntryResponse(entry))
}

// Update godoc
// @Summary      Editar un conteo
// @Description  Solo el contador original, mientras no esté aprobado. Editar un
//
//	conteo rechazado lo regresa a PENDING y limpia la razón de rechazo.
//
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del conteo"
// @Param        body  body  dto.UpdateCountRequest  true  "quantity y campos opcionales"
// @Success      200   {object}  dto.CountEntryResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock-take/counts/{id} [put]
func (h *CountHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.uc.UpdateCount(c.Context(), stocktake.UpdateCountInput{
		EntryID:     c.Params("id"),
		UserID:      GetUserID(c),
		Quantity:    in.Quantity,
		UnitName:    in.UnitName,
		BatchNumber: in.BatchNumber,
		ExpiryDate:  in.ExpiryDate,
		Notes:       in.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toCountEntryResponse(entry))
}

// Delete godoc
// @Summary      Borrar un conteo no aprobado
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock-take/counts/{id} [delete]
func (h *CountHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteCount(c.Context(), c.Params("id"), GetUserID(c), GetCapability(c)); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "conteo eliminado"})
}

// ListByShelf godoc
// @Summary      Conteos de un estante
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        session_id  query  string  true  "ID de la sesión"
// @Param        shelf       query  string  true  "Nombre del estante"
// @Success      200  {array}   dto.CountEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-take/counts [get]
func (h *CountHandler) ListByShelf(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	shelf := c.Query("shelf")
	if sessionID == "" || shelf == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id y shelf son requeridos"})
	}
	entries, err := h.uc.ListByShelf(c.Context(), sessionID, shelf)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toCountEntryResponses(entries))
}

// ListMine godoc
// @Summary      Mis conteos en la sesión
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        session_id  query  string  true  "ID de la sesión"
// @Success      200  {array}   dto.CountEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock-take/counts/mine [get]
func (h *CountHandler) ListMine(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id es requerido"})
	}
	entries, err := h.uc.ListMine(c.Context(), sessionID, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toCountEntryResponses(entries))
}

func toCountEntryResponse(e *entity.ItemCountEntry) dto.CountEntryResponse {
	return dto.CountEntryResponse{
		ID:                 e.ID,
		SessionID:          e.SessionID,
		ItemID:             e.ItemID,
		ShelfLocation:      e.ShelfLocation,
		BatchNumber:        e.BatchNumber,
		ExpiryDate:         e.ExpiryDate,
		UnitName:           e.UnitName,
		QuantityInUnit:     e.QuantityInUnit,
		CountedQuantity:    e.CountedQuantity,
		SystemQuantity:     e.SystemQuantity,
		Variance:           e.Variance(),
		CountedBy:          e.CountedBy,
		CountedAt:          e.CountedAt,
		VerificationStatus: e.VerificationStatus,
		RejectionReason:    e.RejectionReason,
		Notes:              e.Notes,
	}
}

func toCountEntryResponses(entries []*entity.ItemCountEntry) []dto.CountEntryResponse {
	out := make([]dto.CountEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCountEntryResponse(e))
	}
	return out
}
