package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	"github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

var _ repository.ShelfRepository = (*ShelfRepo)(nil)

// ShelfRepo registro de estantes abiertos por sesión. La clave normalizada
// (lower) tiene índice único por sesión: la colisión case-insensitive se
// rechaza en la base, no en el cliente.
type ShelfRepo struct {
	q Querier
}

// NewShelfRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShelfRepository(q Querier) *ShelfRepo {
	return &ShelfRepo{q: q}
}

// Register abre un estante. Violación del índice único (session_id, name_key)
// se traduce a ErrDuplicateShelf.
func (r *ShelfRepo) Register(shelf *entity.Shelf) error {
	query := `
		INSERT INTO session_shelves (session_id, name, name_key, opened_by, opened_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		shelf.SessionID, shelf.Name, stocktake.NormalizeShelfKey(shelf.Name),
		shelf.OpenedBy, shelf.OpenedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateShelf
		}
		return fmt.Errorf("register shelf: %w", err)
	}
	return nil
}

// ListBySession estantes registrados en la sesión, en orden de apertura.
func (r *ShelfRepo) ListBySession(sessionID string) ([]*entity.Shelf, error) {
	query := `
		SELECT session_id, name, opened_by, opened_at
		FROM session_shelves WHERE session_id = $1 ORDER BY opened_at`
	rows, err := r.q.Query(context.Background(), query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shelf
	for rows.Next() {
		var s entity.Shelf
		if err := rows.Scan(&s.SessionID, &s.Name, &s.OpenedBy, &s.OpenedAt); err != nil {
			return nil, fmt.Errorf("scan shelf: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// DeleteBySession descarta los estantes de la sesión (cancelación).
func (r *ShelfRepo) DeleteBySession(sessionID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM session_shelves WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session shelves: %w", err)
	}
	return nil
}
