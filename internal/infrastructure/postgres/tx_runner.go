package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/conteo-api/internal/application/stocktake"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ stocktake.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Completar
// y cancelar sesiones pasan por aquí: o todo se aplica o nada.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	sessionRepo repository.SessionRepository,
	entryRepo repository.CountEntryRepository,
	shelfRepo repository.ShelfRepository,
	stockRepo repository.StockRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sessionRepo := NewSessionRepository(tx)
	entryRepo := NewCountEntryRepository(tx)
	shelfRepo := NewShelfRepository(tx)
	stockRepo := NewStockRepository(tx)
	movRepo := NewInventoryMovementRepository(tx)

	if err := fn(sessionRepo, entryRepo, shelfRepo, stockRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
