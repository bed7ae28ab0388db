package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL (usable con
// pool o tx). La unicidad de sesión activa por sucursal la garantiza el índice
// único parcial ux_sessions_branch_active.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, branch_id, status, started_by, started_at, ended_by, ended_at, items_updated, total_counts, warnings`

// Create persiste la sesión. Una violación del índice único parcial (dos
// admins iniciando a la vez) se traduce a ErrSessionExists.
func (r *SessionRepo) Create(session *entity.StockTakeSession) error {
	query := `
		INSERT INTO stock_take_sessions (id, branch_id, status, started_by, started_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.BranchID, session.Status, session.StartedBy, session.StartedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionExists
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *SessionRepo) GetByID(id string) (*entity.StockTakeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM stock_take_sessions WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene la sesión y bloquea la fila (SELECT FOR UPDATE):
// punto único de arbitraje para complete/cancel concurrentes.
func (r *SessionRepo) GetByIDForUpdate(id string) (*entity.StockTakeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM stock_take_sessions WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// GetActiveByBranch obtiene la sesión ACTIVE de la sucursal, nil si no hay.
func (r *SessionRepo) GetActiveByBranch(branchID string) (*entity.StockTakeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM stock_take_sessions WHERE branch_id = $1 AND status = $2`
	return r.scanOne(query, branchID, entity.SessionStatusActive)
}

// Finish transiciona a estado terminal y persiste el resumen de cierre.
func (r *SessionRepo) Finish(session *entity.StockTakeSession) error {
	query := `
		UPDATE stock_take_sessions
		SET status = $2, ended_by = $3, ended_at = $4, items_updated = $5, total_counts = $6, warnings = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.Status, session.EndedBy, session.EndedAt,
		session.ItemsUpdated, session.TotalCounts, session.Warnings,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// ListByBranch sesiones de la sucursal, más recientes primero (auditoría:
// las terminales nunca se borran).
func (r *SessionRepo) ListByBranch(branchID string, limit, offset int) ([]*entity.StockTakeSession, error) {
	query := `
		SELECT ` + sessionColumns + ` FROM stock_take_sessions
		WHERE branch_id = $1 ORDER BY started_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTakeSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SessionRepo) scanOne(query string, args ...any) (*entity.StockTakeSession, error) {
	s, err := scanSession(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func scanSession(row pgx.Row) (*entity.StockTakeSession, error) {
	var s entity.StockTakeSession
	err := row.Scan(
		&s.ID, &s.BranchID, &s.Status, &s.StartedBy, &s.StartedAt,
		&s.EndedBy, &s.EndedAt, &s.ItemsUpdated, &s.TotalCounts, &s.Warnings,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
