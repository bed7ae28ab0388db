package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// StockRepository puerto para consultar/ajustar el stock autoritativo por
// artículo+sucursal. Usado dentro de transacciones para la reconciliación.
type StockRepository interface {
	// Get lectura simple (snapshot de system_quantity al guardar un conteo).
	Get(itemID, branchID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(itemID, branchID string) (*entity.Stock, error)
}
