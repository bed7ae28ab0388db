package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo lectura del catálogo de artículos (colaborador externo: el CRUD
// del catálogo vive en otro módulo).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// GetByID obtiene el artículo con sus unidades de empaque, nil si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `
		SELECT id, company_id, branch_id, sku, name, unit_measure,
			requires_batch_tracking, requires_expiry_tracking, created_at, updated_at
		FROM items WHERE id = $1`
	var it entity.Item
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&it.ID, &it.CompanyID, &it.BranchID, &it.SKU, &it.Name, &it.UnitMeasure,
		&it.RequiresBatchTracking, &it.RequiresExpiryTracking, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	units, err := r.loadUnits(it.ID)
	if err != nil {
		return nil, err
	}
	it.Units = units
	return &it, nil
}

// Search busca artículos por SKU o nombre dentro de la empresa/sucursal.
func (r *ItemRepo) Search(query, companyID, branchID string, limit, offset int) ([]*entity.Item, error) {
	sql := `
		SELECT id, company_id, branch_id, sku, name, unit_measure,
			requires_batch_tracking, requires_expiry_tracking, created_at, updated_at
		FROM items
		WHERE company_id = $1 AND branch_id = $2
			AND (sku ILIKE '%' || $3 || '%' OR name ILIKE '%' || $3 || '%')
		ORDER BY name LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), sql, companyID, branchID, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(
			&it.ID, &it.CompanyID, &it.BranchID, &it.SKU, &it.Name, &it.UnitMeasure,
			&it.RequiresBatchTracking, &it.RequiresExpiryTracking, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, it := range list {
		units, err := r.loadUnits(it.ID)
		if err != nil {
			return nil, err
		}
		it.Units = units
	}
	return list, nil
}

// HasTransactions indica si el artículo ya tiene movimientos en la sucursal
// (decide si el empaque puede editarse en línea durante el conteo).
func (r *ItemRepo) HasTransactions(itemID, branchID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM inventory_movements WHERE item_id = $1 AND branch_id = $2)`,
		itemID, branchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has transactions: %w", err)
	}
	return exists, nil
}

// CountByBranch universo esperado de artículos de la sucursal (progreso).
func (r *ItemRepo) CountByBranch(branchID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM items WHERE branch_id = $1`, branchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

func (r *ItemRepo) loadUnits(itemID string) ([]entity.ItemUnit, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT name, multiplier FROM item_units WHERE item_id = $1 ORDER BY multiplier`, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item units: %w", err)
	}
	defer rows.Close()
	var units []entity.ItemUnit
	for rows.Next() {
		var u entity.ItemUnit
		if err := rows.Scan(&u.Name, &u.Multiplier); err != nil {
			return nil, fmt.Errorf("scan item unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
