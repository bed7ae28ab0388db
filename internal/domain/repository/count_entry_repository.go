package repository

import (
	"time"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// CountEntryRepository puerto de persistencia del libro de conteos (DIP).
type CountEntryRepository interface {
	Create(entry *entity.ItemCountEntry) error
	GetByID(id string) (*entity.ItemCountEntry, error)
	Update(entry *entity.ItemCountEntry) error
	Delete(id string) error
	ListBySession(sessionID string) ([]*entity.ItemCountEntry, error)
	ListByShelf(sessionID, shelfLocation string) ([]*entity.ItemCountEntry, error)
	ListByUser(sessionID, userID string) ([]*entity.ItemCountEntry, error)
	// DeleteBySession borra todos los conteos de la sesión (cancelación).
	// Devuelve cuántos borró.
	DeleteBySession(sessionID string) (int, error)
	// ApproveShelf marca APPROVED los conteos PENDING del estante (idempotente:
	// los ya aprobados no se tocan). Devuelve cuántos transicionó.
	ApproveShelf(sessionID, shelfLocation, verifierID string, at time.Time) (int, error)
	// RejectShelf marca REJECTED, con la razón, los conteos no aprobados del
	// estante. Nunca toca conteos APPROVED.
	RejectShelf(sessionID, shelfLocation, verifierID, reason string, at time.Time) (int, error)
	// DistinctItems cuenta artículos distintos ya contados en la sesión.
	DistinctItems(sessionID string) (int, error)
}
