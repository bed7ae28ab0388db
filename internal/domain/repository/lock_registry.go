package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// LockRegistry registro de bloqueos transitorios por (sesión, artículo).
// La implementación vive en memoria: los bloqueos expiran por TTL y jamás
// se persisten. Acquire es el único punto de arbitraje entre contadores.
type LockRegistry interface {
	// Acquire otorga el bloqueo si no existe o el existente expiró; si otro
	// usuario lo tiene vigente devuelve *domain.LockConflictError.
	// Re-adquirir el propio bloqueo renueva su vencimiento.
	Acquire(sessionID, itemID, userID, userName string) (*entity.ItemLock, error)
	// Release idempotente: libera solo si el caller es el holder (o ya expiró).
	Release(sessionID, itemID, userID string)
	// List bloqueos vigentes de la sesión (lo consultan por polling todos los
	// clientes activos para refrescar "quién cuenta qué").
	List(sessionID string) []*entity.ItemLock
	// ReleaseSession descarta todos los bloqueos de la sesión (cancel/complete).
	ReleaseSession(sessionID string)
}
