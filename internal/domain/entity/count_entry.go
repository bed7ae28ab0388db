package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de verificación de un conteo individual.
const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

// ItemCountEntry un conteo registrado por un usuario: una fila por tupla
// (sesión, artículo, lote, unidad). El conteo mixto de unidades para el mismo
// artículo/estante es válido mientras la unidad difiera.
// Mutable en PENDING o REJECTED; inmutable una vez APPROVED.
type ItemCountEntry struct {
	ID                 string
	SessionID          string
	BranchID           string
	ItemID             string
	ShelfLocation      string
	BatchNumber        *string    // obligatorio si el artículo exige lote
	ExpiryDate         *time.Time // obligatorio si el artículo exige vencimiento
	UnitName           string
	QuantityInUnit     decimal.Decimal // cantidad tal como se contó, en la unidad elegida
	CountedQuantity    decimal.Decimal // normalizada a unidad base (qty * multiplicador)
	SystemQuantity     decimal.Decimal // stock del sistema al momento del conteo (snapshot, no se relee)
	CountedBy          string
	CountedAt          time.Time
	VerificationStatus string // PENDING, APPROVED, REJECTED
	RejectionReason    *string
	Notes              string
	VerifiedBy         *string
	VerifiedAt         *time.Time
}

// Variance diferencia contado − sistema; estable aunque el stock cambie después,
// porque SystemQuantity es un snapshot de lectura única.
func (e *ItemCountEntry) Variance() decimal.Decimal {
	return e.CountedQuantity.Sub(e.SystemQuantity)
}

// Editable indica si el conteo aún puede modificarse o borrarse.
func (e *ItemCountEntry) Editable() bool {
	return e.VerificationStatus == VerificationPending || e.VerificationStatus == VerificationRejected
}
