package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartSessionRequest body para POST /api/stock-take/sessions.
type StartSessionRequest struct {
	BranchID string `json:"branch_id" validate:"required,uuid"`
}

// SessionResponse sesión de conteo para respuestas.
type SessionResponse struct {
	ID           string     `json:"id"`
	BranchID     string     `json:"branch_id"`
	Status       string     `json:"status"`
	StartedBy    string     `json:"started_by"`
	StartedAt    time.Time  `json:"started_at"`
	EndedBy      *string    `json:"ended_by,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	ItemsUpdated int        `json:"items_updated,omitempty"`
	TotalCounts  int        `json:"total_counts,omitempty"`
	Warnings     []string   `json:"warnings,omitempty"`
}

// DraftsBlockingResponse desglose de borradores que impiden iniciar sesión,
// por tipo de documento, para que el cliente pueda armar navegación de arreglo.
type DraftsBlockingResponse struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	SalesInvoices    int    `json:"sales_invoices"`
	PurchaseInvoices int    `json:"purchase_invoices"`
	CreditNotes      int    `json:"credit_notes"`
}

// CancelSessionResponse resultado de cancelar: cuántos conteos se descartaron.
type CancelSessionResponse struct {
	CountsDeleted int `json:"counts_deleted"`
}

// CompleteSessionResponse resumen de reconciliación al completar.
type CompleteSessionResponse struct {
	ItemsUpdated int      `json:"items_updated"`
	TotalCounts  int      `json:"total_counts"`
	Warnings     []string `json:"warnings"`
}

// MovementResponse ajuste de inventario producido por la reconciliación.
type MovementResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	BranchID    string          `json:"branch_id"`
	BatchNumber *string         `json:"batch_number,omitempty"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"created_by"`
}

// BranchResponse sucursal para el selector del cliente.
type BranchResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Status  string `json:"status"`
}

// SaveCountRequest body para registrar un conteo.
type SaveCountRequest struct {
	SessionID     string          `json:"session_id" validate:"required,uuid"`
	ItemID        string          `json:"item_id" validate:"required,uuid"`
	ShelfLocation string          `json:"shelf_location" validate:"required"`
	BatchNumber   *string         `json:"batch_number,omitempty"`
	ExpiryDate    *time.Time      `json:"expiry_date,omitempty"`
	UnitName      string          `json:"unit_name" validate:"required"`
	Quantity      decimal.Decimal `json:"quantity"`
	Notes         string          `json:"notes,omitempty"`
}

// UpdateCountRequest body para editar un conteo existente.
type UpdateCountRequest struct {
	Quantity    decimal.Decimal `json:"quantity"`
	UnitName    string          `json:"unit_name,omitempty"`
	BatchNumber *string         `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// CountEntryResponse un conteo del libro, con su varianza estable.
type CountEntryResponse struct {
	ID                 string          `json:"id"`
	SessionID          string          `json:"session_id"`
	ItemID             string          `json:"item_id"`
	ShelfLocation      string          `json:"shelf_location"`
	BatchNumber        *string         `json:"batch_number,omitempty"`
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
	UnitName           string          `json:"unit_name"`
	QuantityInUnit     decimal.Decimal `json:"quantity_in_unit"`
	CountedQuantity    decimal.Decimal `json:"counted_quantity"`
	SystemQuantity     decimal.Decimal `json:"system_quantity"`
	Variance           decimal.Decimal `json:"variance"`
	CountedBy          string          `json:"counted_by"`
	CountedAt          time.Time       `json:"counted_at"`
	VerificationStatus string          `json:"verification_status"`
	RejectionReason    *string         `json:"rejection_reason,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

// OpenShelfRequest body para abrir un estante nuevo.
type OpenShelfRequest struct {
	BranchID string `json:"branch_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// ShelfResponse estante con su estado derivado.
type ShelfResponse struct {
	Name               string `json:"name"`
	ItemCount          int    `json:"item_count"`
	VerificationStatus string `json:"verification_status"`
}

// VerifyShelfRequest body para aprobar o rechazar un estante. Reason es
// obligatorio solo al rechazar.
type VerifyShelfRequest struct {
	BranchID  string `json:"branch_id" validate:"required,uuid"`
	ShelfName string `json:"shelf_name" validate:"required"`
	Reason    string `json:"reason,omitempty"`
}

// AcquireLockRequest body para reclamar el bloqueo de un artículo.
type AcquireLockRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
	ItemID    string `json:"item_id" validate:"required,uuid"`
}

// LockResponse bloqueo vigente, con el holder visible para la UI.
type LockResponse struct {
	SessionID  string    `json:"session_id"`
	ItemID     string    `json:"item_id"`
	HeldBy     string    `json:"held_by"`
	HeldByName string    `json:"held_by_name"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// LockConflictResponse respuesta 409 al reclamar un artículo bloqueado: la UI
// muestra al holder y rehúsa abrir el formulario.
type LockConflictResponse struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	ItemID     string    `json:"item_id"`
	HeldBy     string    `json:"held_by"`
	HeldByName string    `json:"held_by_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ProgressResponse métricas de avance del conteo.
type ProgressResponse struct {
	CountedItems int `json:"counted_items"`
	TotalItems   int `json:"total_items"`
}

// ItemUnitResponse unidad de empaque con su multiplicador a unidad base.
type ItemUnitResponse struct {
	Name       string          `json:"name"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// ItemResponse artículo del catálogo tal como lo necesita el contador:
// banderas de lote/vencimiento y unidades disponibles.
type ItemResponse struct {
	ID                     string             `json:"id"`
	SKU                    string             `json:"sku"`
	Name                   string             `json:"name"`
	UnitMeasure            string             `json:"unit_measure"`
	RequiresBatchTracking  bool               `json:"requires_batch_tracking"`
	RequiresExpiryTracking bool               `json:"requires_expiry_tracking"`
	HasTransactions        bool               `json:"has_transactions"`
	Units                  []ItemUnitResponse `json:"units"`
}

// ItemSearchResponse página de resultados de búsqueda de catálogo.
type ItemSearchResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
