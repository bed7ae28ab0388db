package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Sesión de conteo físico
	ErrSessionExists    = errors.New("la sucursal ya tiene una sesión de conteo activa")
	ErrSessionNotActive = errors.New("la sesión de conteo no está activa")

	// Libro de conteos
	ErrEntryApproved  = errors.New("el conteo ya fue aprobado y no puede modificarse")
	ErrBatchRequired  = errors.New("el artículo requiere número de lote")
	ErrExpiryRequired = errors.New("el artículo requiere fecha de vencimiento")
	ErrUnknownUnit    = errors.New("unidad no definida para el artículo")

	// Estantes
	ErrDuplicateShelf = errors.New("ya existe un estante con ese nombre en la sesión")
	ErrShelfEmpty     = errors.New("el estante no tiene conteos registrados")
)

// DraftsBlockingError bloquea el inicio de sesión: hay documentos en borrador
// pendientes en la sucursal. Incluye el desglose por tipo para que el cliente
// pueda mostrar navegación de corrección.
type DraftsBlockingError struct {
	SalesInvoices    int
	PurchaseInvoices int
	CreditNotes      int
}

func (e *DraftsBlockingError) Error() string {
	return fmt.Sprintf("documentos en borrador bloquean el conteo: %d facturas de venta, %d facturas de compra, %d notas crédito",
		e.SalesInvoices, e.PurchaseInvoices, e.CreditNotes)
}

// Total devuelve el total de documentos bloqueantes.
func (e *DraftsBlockingError) Total() int {
	return e.SalesInvoices + e.PurchaseInvoices + e.CreditNotes
}

// LockConflictError otro usuario tiene el bloqueo del artículo. El cliente
// debe mostrar quién lo tiene y rehusar abrir el formulario de conteo.
type LockConflictError struct {
	ItemID     string
	HeldBy     string
	HeldByName string
	ExpiresAt  time.Time
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("el artículo está siendo contado por %s", e.HeldByName)
}
