package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// SessionHandler maneja el ciclo de vida de las sesiones de conteo (protegido).
type SessionHandler struct {
	uc *stocktake.SessionUseCase
}

// NewSessionHandler construye el handler de sesiones.
func NewSessionHandler(uc *stocktake.SessionUseCase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar sesión de conteo físico
// @Description  Congela la sucursal para conteo. Falla con 412 y el desglose
//
//	por tipo si existen documentos en borrador pendientes.
//
// @Tags         stock-take
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartSessionRequest  true  "branch_id"
// @Success      201   {object}  dto.SessionResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.DraftsBlockingResponse
// @Router       /api/stock-take/sessions [post]
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	var in dto.StartSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	session, err := h.uc.Start(c.Context(), branchID, GetUserID(c), GetCapability(c))
	if err != nil {
		var drafts *domain.DraftsBlockingError
		if errors.As(err, &drafts) {
			return c.Status(fiber.StatusPreconditionFailed).JSON(dto.DraftsBlockingResponse{
				Code:             "DRAFTS_PENDING",
				Message:          drafts.Error(),
				SalesInvoices:    drafts.SalesInvoices,
				PurchaseInvoices: drafts.PurchaseInvoices,
				CreditNotes:      drafts.CreditNotes,
			})
		}
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionResponse(session))
}

// Active godoc
// @Summary      Sesión activa de la sucursal
// @Tags         stock-take
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-take/sessions/active [get]
func (h *SessionHandler) Active(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	session, err := h.uc.Active(c.Context(), branchID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toSessionResponse(session))
}

// History godoc
// @Summary      Historial de sesiones de la sucursal
// @Description  Sesiones más recientes primero; las terminales conservan su
//
//	resumen de cierre para auditoría.
//
// @Tags         stock-take
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Param        limit      query  int     false  "Máximo de resultados (default 20)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.SessionResponse
// @Router       /api/stock-take/sessions [get]
func (h *SessionHandler) History(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	sessions, err := h.uc.History(c.Context(), branchID, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar sesión de conteo
// @Description  Borra todos los conteos y bloqueos y deja el inventario intacto.
// @Tags         stock-take
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CancelSessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/stock-take/sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *fiber.Ctx) error {
	deleted, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), GetCapability(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.CancelSessionResponse{CountsDeleted: deleted})
}

// Complete godoc
// @Summary      Completar sesión y reconciliar inventario
// @Description  Aplica los ajustes de los estantes aprobados; los no aprobados
//
//	se omiten y cada uno genera una advertencia en la respuesta.
//
// @Tags         stock-take
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CompleteSessionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/stock-take/sessions/{id}/complete [post]
func (h *SessionHandler) Complete(c *fiber.Ctx) error {
	summary, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c), GetCapability(c))
	if err != nil {
		return domainError(c, err)
	}
	warnings := summary.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(dto.CompleteSessionResponse{
		ItemsUpdated: summary.ItemsUpdated,
		TotalCounts:  summary.TotalCounts,
		Warnings:     warnings,
	})
}

// Movements godoc
// @Summary      Ajustes de inventario de una sesión
// @Description  Movimientos de corrección que produjo la reconciliación al
//
//	completar; vacío mientras la sesión no se complete.
//
// @Tags         stock-take
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-take/sessions/{id}/movements [get]
func (h *SessionHandler) Movements(c *fiber.Ctx) error {
	movements, err := h.uc.Movements(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ItemID:      m.ItemID,
			BranchID:    m.BranchID,
			BatchNumber: m.BatchNumber,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Date:        m.Date,
			CreatedBy:   m.CreatedBy,
		})
	}
	return c.JSON(out)
}

func toSessionResponse(s *entity.StockTakeSession) dto.SessionResponse {
	return dto.SessionResponse{
		ID:           s.ID,
		BranchID:     s.BranchID,
		Status:       s.Status,
		StartedBy:    s.StartedBy,
		StartedAt:    s.StartedAt,
		EndedBy:      s.EndedBy,
		EndedAt:      s.EndedAt,
		ItemsUpdated: s.ItemsUpdated,
		TotalCounts:  s.TotalCounts,
		Warnings:     s.Warnings,
	}
}
