package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// SessionRepository puerto de persistencia para sesiones de conteo (DIP).
type SessionRepository interface {
	// Create persiste la sesión. Devuelve domain.ErrSessionExists si la
	// sucursal ya tiene una sesión ACTIVE (índice único parcial).
	Create(session *entity.StockTakeSession) error
	GetByID(id string) (*entity.StockTakeSession, error)
	// GetByIDForUpdate bloquea la fila de la sesión (SELECT FOR UPDATE) para
	// que complete/cancel sean un único punto de arbitraje.
	GetByIDForUpdate(id string) (*entity.StockTakeSession, error)
	GetActiveByBranch(branchID string) (*entity.StockTakeSession, error)
	// Finish transiciona a estado terminal y persiste el resumen de cierre.
	Finish(session *entity.StockTakeSession) error
	ListByBranch(branchID string, limit, offset int) ([]*entity.StockTakeSession, error)
}
