package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
)

// ProgressHandler métricas de avance del conteo (protegido, polling).
type ProgressHandler struct {
	uc *stocktake.ProgressUseCase
}

// NewProgressHandler construye el handler de progreso.
func NewProgressHandler(uc *stocktake.ProgressUseCase) *ProgressHandler {
	return &ProgressHandler{uc: uc}
}

// Get godoc
// @Summary      Progreso de la sesión activa
// @Description  Artículos distintos contados contra el universo esperado de la
//
//	sucursal. Solo informativo: no condiciona completar la sesión.
//	Sin sesión activa responde 0/0.
//
// @Tags         stock-take
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {object}  dto.ProgressResponse
// @Router       /api/stock-take/progress [get]
func (h *ProgressHandler) Get(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		branchID = GetBranchID(c)
	}
	progress, err := h.uc.GetProgress(c.Context(), branchID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ProgressResponse{
		CountedItems: progress.CountedItems,
		TotalItems:   progress.TotalItems,
	})
}
