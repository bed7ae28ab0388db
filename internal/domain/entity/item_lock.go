package entity

import "time"

// ItemLock bloqueo exclusivo transitorio sobre (sesión, artículo) mientras un
// contador tiene abierto el formulario. No se persiste: vive en memoria hasta
// expirar por TTL o liberarse explícitamente al guardar/cancelar.
type ItemLock struct {
	SessionID    string
	ItemID       string
	HolderUserID string
	HolderName   string
	AcquiredAt   time.Time
	ExpiresAt    time.Time
}

// Expired indica si el bloqueo ya venció y cualquiera puede re-adquirirlo.
func (l *ItemLock) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
