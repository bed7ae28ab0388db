package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// InventoryMovementRepository puerto de persistencia para los eventos de
// corrección de stock que produce la reconciliación.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	// ListBySession movimientos producidos por una sesión de conteo (auditoría).
	ListBySession(sessionID string) ([]*entity.InventoryMovement, error)
}
