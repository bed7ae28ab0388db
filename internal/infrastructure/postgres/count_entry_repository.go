package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.CountEntryRepository = (*CountEntryRepo)(nil)

// CountEntryRepo libro de conteos sobre PostgreSQL (usable con pool o tx).
type CountEntryRepo struct {
	q Querier
}

// NewCountEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountEntryRepository(q Querier) *CountEntryRepo {
	return &CountEntryRepo{q: q}
}

const entryColumns = `id, session_id, branch_id, item_id, shelf_location, batch_number, expiry_date,
	unit_name, quantity_in_unit, counted_quantity, system_quantity, counted_by, counted_at,
	verification_status, rejection_reason, notes, verified_by, verified_at`

// Create persiste un conteo. La tupla (sesión, artículo, lote, unidad) es
// única: un duplicado exacto se traduce a ErrConflict (el conteo mixto de
// unidades sí es válido porque la unidad difiere).
func (r *CountEntryRepo) Create(entry *entity.ItemCountEntry) error {
	query := `
		INSERT INTO item_count_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.SessionID, entry.BranchID, entry.ItemID, entry.ShelfLocation,
		entry.BatchNumber, entry.ExpiryDate, entry.UnitName, entry.QuantityInUnit,
		entry.CountedQuantity, entry.SystemQuantity, entry.CountedBy, entry.CountedAt,
		entry.VerificationStatus, entry.RejectionReason, entry.Notes, entry.VerifiedBy, entry.VerifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create count entry: %w", err)
	}
	return nil
}

// GetByID obtiene un conteo por ID, nil si no existe.
func (r *CountEntryRepo) GetByID(id string) (*entity.ItemCountEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM item_count_entries WHERE id = $1`
	e, err := scanEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count entry: %w", err)
	}
	return e, nil
}

// Update persiste la edición de un conteo (cantidades, lote, estado de
// verificación y razón incluidos).
func (r *CountEntryRepo) Update(entry *entity.ItemCountEntry) error {
	query := `
		UPDATE item_count_entries
		SET shelf_location = $2, batch_number = $3, expiry_date = $4, unit_name = $5,
			quantity_in_unit = $6, counted_quantity = $7, counted_by = $8, counted_at = $9,
			verification_status = $10, rejection_reason = $11, notes = $12,
			verified_by = $13, verified_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ShelfLocation, entry.BatchNumber, entry.ExpiryDate, entry.UnitName,
		entry.QuantityInUnit, entry.CountedQuantity, entry.CountedBy, entry.CountedAt,
		entry.VerificationStatus, entry.RejectionReason, entry.Notes,
		entry.VerifiedBy, entry.VerifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update count entry: %w", err)
	}
	return nil
}

// Delete borra un conteo (las reglas de quién y cuándo viven en el use case).
func (r *CountEntryRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM item_count_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete count entry: %w", err)
	}
	return nil
}

// ListBySession todos los conteos de la sesión.
func (r *CountEntryRepo) ListBySession(sessionID string) ([]*entity.ItemCountEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM item_count_entries WHERE session_id = $1 ORDER BY counted_at`
	return r.list(query, sessionID)
}

// ListByShelf conteos de un estante dentro de la sesión.
func (r *CountEntryRepo) ListByShelf(sessionID, shelfLocation string) ([]*entity.ItemCountEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM item_count_entries WHERE session_id = $1 AND shelf_location = $2 ORDER BY counted_at`
	return r.list(query, sessionID, shelfLocation)
}

// ListByUser conteos registrados por el usuario en la sesión.
func (r *CountEntryRepo) ListByUser(sessionID, userID string) ([]*entity.ItemCountEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM item_count_entries WHERE session_id = $1 AND counted_by = $2 ORDER BY counted_at`
	return r.list(query, sessionID, userID)
}

// DeleteBySession borra todos los conteos de la sesión (cancelación).
func (r *CountEntryRepo) DeleteBySession(sessionID string) (int, error) {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM item_count_entries WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete session entries: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ApproveShelf marca APPROVED los conteos PENDING del estante. Set-based y
// por estado: los ya aprobados no se tocan, así que repetir la llamada es
// idempotente.
func (r *CountEntryRepo) ApproveShelf(sessionID, shelfLocation, verifierID string, at time.Time) (int, error) {
	query := `
		UPDATE item_count_entries
		SET verification_status = $4, rejection_reason = NULL, verified_by = $5, verified_at = $6
		WHERE session_id = $1 AND shelf_location = $2 AND verification_status = $3`
	tag, err := r.q.Exec(context.Background(), query,
		sessionID, shelfLocation, entity.VerificationPending,
		entity.VerificationApproved, verifierID, at,
	)
	if err != nil {
		return 0, fmt.Errorf("approve shelf: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RejectShelf marca REJECTED, con la razón, los conteos no aprobados del
// estante. Los APPROVED jamás se tocan: la aprobación es terminal.
func (r *CountEntryRepo) RejectShelf(sessionID, shelfLocation, verifierID, reason string, at time.Time) (int, error) {
	query := `
		UPDATE item_count_entries
		SET verification_status = $4, rejection_reason = $5, verified_by = $6, verified_at = $7
		WHERE session_id = $1 AND shelf_location = $2 AND verification_status <> $3`
	tag, err := r.q.Exec(context.Background(), query,
		sessionID, shelfLocation, entity.VerificationApproved,
		entity.VerificationRejected, reason, verifierID, at,
	)
	if err != nil {
		return 0, fmt.Errorf("reject shelf: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DistinctItems artículos distintos ya contados en la sesión (progreso).
func (r *CountEntryRepo) DistinctItems(sessionID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(DISTINCT item_id) FROM item_count_entries WHERE session_id = $1`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("distinct items: %w", err)
	}
	return n, nil
}

func (r *CountEntryRepo) list(query string, args ...any) ([]*entity.ItemCountEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list count entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemCountEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan count entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEntry(row pgx.Row) (*entity.ItemCountEntry, error) {
	var e entity.ItemCountEntry
	err := row.Scan(
		&e.ID, &e.SessionID, &e.BranchID, &e.ItemID, &e.ShelfLocation,
		&e.BatchNumber, &e.ExpiryDate, &e.UnitName, &e.QuantityInUnit,
		&e.CountedQuantity, &e.SystemQuantity, &e.CountedBy, &e.CountedAt,
		&e.VerificationStatus, &e.RejectionReason, &e.Notes, &e.VerifiedBy, &e.VerifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
