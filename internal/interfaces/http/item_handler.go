package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// ItemHandler consulta de catálogo para los contadores (protegido).
type ItemHandler struct {
	uc *stocktake.ItemUseCase
}

// NewItemHandler construye el handler de artículos.
func NewItemHandler(uc *stocktake.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Search godoc
// @Summary      Buscar artículos por SKU o nombre
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  true   "Texto a buscar"
// @Param        limit   query  int     false  "Máximo de resultados (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ItemSearchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "q es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	items, err := h.uc.Search(c.Context(), query, GetCompanyID(c), GetBranchID(c), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return c.JSON(dto.ItemSearchResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID godoc
// @Summary      Detalle de un artículo con sus unidades
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, hasTx, err := h.uc.Get(c.Context(), c.Params("id"), GetBranchID(c))
	if err != nil {
		return domainError(c, err)
	}
	resp := toItemResponse(item)
	resp.HasTransactions = hasTx
	return c.JSON(resp)
}

func toItemResponse(it *entity.Item) dto.ItemResponse {
	units := make([]dto.ItemUnitResponse, 0, len(it.Units))
	for _, u := range it.Units {
		units = append(units, dto.ItemUnitResponse{Name: u.Name, Multiplier: u.Multiplier})
	}
	return dto.ItemResponse{
		ID:                     it.ID,
		SKU:                    it.SKU,
		Name:                   it.Name,
		UnitMeasure:            it.UnitMeasure,
		RequiresBatchTracking:  it.RequiresBatchTracking,
		RequiresExpiryTracking: it.RequiresExpiryTracking,
		Units:                  units,
	}
}
