package stocktake

import (
	"context"
	"strings"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// ItemUseCase consulta del catálogo para los contadores: búsqueda por SKU o
// nombre y detalle con unidades de empaque. Solo lectura.
type ItemUseCase struct {
	itemRepo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(itemRepo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo}
}

// Search busca artículos por SKU o nombre dentro de la empresa y sucursal.
func (uc *ItemUseCase) Search(ctx context.Context, query, companyID, branchID string, limit, offset int) ([]*entity.Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.itemRepo.Search(strings.TrimSpace(query), companyID, branchID, limit, offset)
}

// Get detalle de un artículo con sus unidades de empaque. El segundo valor
// indica si el artículo ya tiene movimientos en la sucursal: con historial,
// el formulario de conteo no permite editar el empaque en línea.
func (uc *ItemUseCase) Get(ctx context.Context, itemID, branchID string) (*entity.Item, bool, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, false, err
	}
	if item == nil {
		return nil, false, domain.ErrNotFound
	}
	hasTx, err := uc.itemRepo.HasTransactions(itemID, branchID)
	if err != nil {
		return nil, false, err
	}
	return item, hasTx, nil
}
