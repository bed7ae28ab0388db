package stocktake

import (
	"context"

	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que completar y cancelar una sesión
// sean un único paso atómico de leer-y-aplicar, no una suscripción larga.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sessionRepo repository.SessionRepository,
		entryRepo repository.CountEntryRepository,
		shelfRepo repository.ShelfRepository,
		stockRepo repository.StockRepository,
		movRepo repository.InventoryMovementRepository,
	) error) error
}
