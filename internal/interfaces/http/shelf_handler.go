package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// ShelfHandler estantes de la sesión activa: apertura, listado y verificación.
type ShelfHandler struct {
	shelves      *stocktake.ShelfUseCase
	verification *stocktake.VerificationUseCase
}

// NewShelfHandler construye el handler de estantes.
func NewShelfHandler(shelves *stocktake.ShelfUseCase, verification *stocktake.VerificationUseCase) *ShelfHandler {
	return &ShelfHandler{shelves: shelves, verification: verification}
}

// Open godoc
// @Summary      Abrir un estante nuevo
// @Description  Nombres que colisionan case-insensitive con uno existente se
//
//	rechazan con 409.
//
// @Tags         shelves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShelfRequest  true  "branch_id, name"
// @Success      201   {object}  dto.ShelfResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/stock-take/shelves [post]
func (h *ShelfHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenShelfRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	shelf, err := h.shelves.Open(c.Context(), branchID, in.Name, GetUserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toShelfResponse(shelf))
}

// List godoc
// @Summary      Estantes de la sesión activa
// @Description  Cada estante con su conteo de artículos y su estado de
//
//	verificación derivado de los conteos que contiene.
//
// @Tags         shelves
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {array}   dto.ShelfResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/stock-take/shelves [get]
func (h *ShelfHandler) List(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	shelves, err := h.shelves.List(c.Context(), branchID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ShelfResponse, 0, len(shelves))
	for _, s := range shelves {
		out = append(out, toShelfResponse(s))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar un estante
// @Description  Marca APPROVED todos los conteos PENDING del estante.
//
//	Idempotente: los ya aprobados no se tocan.
//
// @Tags         shelves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyShelfRequest  true  "branch_id, shelf_name"
// @Success      200   {object}  map[string]int
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/stock-take/shelves/approve [post]
func (h *ShelfHandler) Approve(c *fiber.Ctx) error {
	var in dto.VerifyShelfRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	approved, err := h.verification.ApproveShelf(c.Context(), branchID, in.ShelfName, GetUserID(c), GetCapability(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"counts_approved": approved})
}

// Reject godoc
// @Summary      Rechazar un estante
// @Description  Marca REJECTED los conteos no aprobados del estante con la
//
//	razón dada; el estante vuelve a ser editable por sus contadores.
//
// @Tags         shelves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyShelfRequest  true  "branch_id, shelf_name, reason"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse
// @Router       /api/stock-take/shelves/reject [post]
func (h *ShelfHandler) Reject(c *fiber.Ctx) error {
	var in dto.VerifyShelfRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	branchID := in.BranchID
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	rejected, err := h.verification.RejectShelf(c.Context(), branchID, in.ShelfName, GetUserID(c), in.Reason, GetCapability(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"counts_rejected": rejected})
}

func toShelfResponse(s *entity.Shelf) dto.ShelfResponse {
	return dto.ShelfResponse{
		Name:               s.Name,
		ItemCount:          s.ItemCount,
		VerificationStatus: s.VerificationStatus,
	}
}
