package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario que produce la reconciliación.
const (
	MovementTypeAdjustment = "ADJUSTMENT" // corrección de stock por conteo físico
)

// InventoryMovement evento de corrección de stock producido al completar una
// sesión: uno por (artículo, lote) con delta = contado − snapshot del sistema.
// TransactionID agrupa todos los ajustes de una misma sesión.
type InventoryMovement struct {
	ID            string
	TransactionID string // id de la sesión de conteo
	ItemID        string
	BranchID      string
	BatchNumber   *string
	Type          string
	Quantity      decimal.Decimal // delta: positivo sobrante, negativo faltante
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
