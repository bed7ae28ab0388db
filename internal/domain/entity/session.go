package entity

import "time"

// Estados de una sesión de conteo físico. ACTIVE es el único estado no terminal:
// una sucursal tiene a lo sumo una sesión ACTIVE a la vez (índice único parcial).
const (
	SessionStatusActive    = "ACTIVE"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCancelled = "CANCELLED"
)

// StockTakeSession sesión de conteo físico de una sucursal. Las sesiones
// terminales (COMPLETED/CANCELLED) nunca se borran físicamente: quedan para auditoría.
type StockTakeSession struct {
	ID        string
	BranchID  string
	Status    string // ACTIVE, COMPLETED, CANCELLED
	StartedBy string
	StartedAt time.Time
	EndedBy   *string
	EndedAt   *time.Time

	// Resumen de cierre (solo COMPLETED)
	ItemsUpdated int
	TotalCounts  int
	Warnings     []string
}

// IsActive indica si la sesión sigue abierta para contar.
func (s *StockTakeSession) IsActive() bool {
	return s.Status == SessionStatusActive
}
