package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// ItemRepository puerto de lectura del catálogo de artículos (colaborador
// externo: este núcleo lo consume, nunca lo administra).
type ItemRepository interface {
	GetByID(id string) (*entity.Item, error)
	Search(query, companyID, branchID string, limit, offset int) ([]*entity.Item, error)
	// HasTransactions indica si el artículo ya tiene movimientos en la
	// sucursal (decide si el empaque/unidad puede editarse en línea).
	HasTransactions(itemID, branchID string) (bool, error)
	// CountByBranch universo esperado de artículos para el progreso.
	CountByBranch(branchID string) (int, error)
}
