package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock autoritativo por artículo+sucursal sobre PostgreSQL
// (usable con pool o tx). Las lecturas sin fila devuelven cantidad cero, no
// error: un artículo jamás contado simplemente no tiene existencia registrada.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un artículo en una sucursal.
func (r *StockRepo) Get(itemID, branchID string) (*entity.Stock, error) {
	query := `
		SELECT item_id, branch_id, quantity, updated_at
		FROM stock WHERE item_id = $1 AND branch_id = $2`
	return r.scan(query, itemID, branchID)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE) para
// aplicar el ajuste de reconciliación sin carreras.
func (r *StockRepo) GetForUpdate(itemID, branchID string) (*entity.Stock, error) {
	query := `
		SELECT item_id, branch_id, quantity, updated_at
		FROM stock WHERE item_id = $1 AND branch_id = $2
		FOR UPDATE`
	return r.scan(query, itemID, branchID)
}

// Upsert inserta o actualiza la cantidad en stock (por artículo y sucursal).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id, branch_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ItemID, stock.BranchID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

func (r *StockRepo) scan(query, itemID, branchID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, itemID, branchID).Scan(
		&s.ItemID, &s.BranchID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, BranchID: branchID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}
