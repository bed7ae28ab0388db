package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.LockRegistry = (*LockRegistry)(nil)

type lockKey struct {
	sessionID string
	itemID    string
}

// LockRegistry registro en memoria de bloqueos por (sesión, artículo).
// Un solo mutex protege el mapa: Acquire es un check-and-set atómico, el
// único punto de arbitraje cuando dos contadores compiten en la misma
// ventana de polling.
type LockRegistry struct {
	mu    sync.Mutex
	ttl   time.Duration
	locks map[lockKey]*entity.ItemLock
	now   func() time.Time // inyectable en tests
}

// NewLockRegistry construye el registro con el TTL configurado.
// El TTL debe ser algo mayor al intervalo de polling del cliente para no
// producir conflictos falsos por jitter normal.
func NewLockRegistry(ttl time.Duration) *LockRegistry {
	return &LockRegistry{
		ttl:   ttl,
		locks: make(map[lockKey]*entity.ItemLock),
		now:   time.Now,
	}
}

// Acquire otorga el bloqueo si no existe o el existente expiró. Si otro
// usuario lo tiene vigente devuelve *domain.LockConflictError con el holder.
// Re-adquirir el propio bloqueo renueva el vencimiento.
func (r *LockRegistry) Acquire(sessionID, itemID, userID, userName string) (*entity.ItemLock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	key := lockKey{sessionID: sessionID, itemID: itemID}
	if existing, ok := r.locks[key]; ok && !existing.Expired(now) && existing.HolderUserID != userID {
		return nil, &domain.LockConflictError{
			ItemID:     itemID,
			HeldBy:     existing.HolderUserID,
			HeldByName: existing.HolderName,
			ExpiresAt:  existing.ExpiresAt,
		}
	}

	lock := &entity.ItemLock{
		SessionID:    sessionID,
		ItemID:       itemID,
		HolderUserID: userID,
		HolderName:   userName,
		AcquiredAt:   now,
		ExpiresAt:    now.Add(r.ttl),
	}
	r.locks[key] = lock
	copied := *lock
	return &copied, nil
}

// Release idempotente: libera solo si el caller es el holder o el bloqueo ya
// expiró. Se invoca al guardar, cancelar o navegar fuera del formulario.
func (r *LockRegistry) Release(sessionID, itemID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := lockKey{sessionID: sessionID, itemID: itemID}
	existing, ok := r.locks[key]
	if !ok {
		return
	}
	if existing.HolderUserID == userID || existing.Expired(r.now()) {
		delete(r.locks, key)
	}
}

// List devuelve los bloqueos vigentes de la sesión (copias, no punteros al
// estado interno).
func (r *LockRegistry) List(sessionID string) []*entity.ItemLock {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var out []*entity.ItemLock
	for key, l := range r.locks {
		if key.sessionID != sessionID {
			continue
		}
		if l.Expired(now) {
			continue
		}
		copied := *l
		out = append(out, &copied)
	}
	return out
}

// ReleaseSession descarta todos los bloqueos de la sesión sin importar holder
// ni vencimiento (cancelación o cierre).
func (r *LockRegistry) ReleaseSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.locks {
		if key.sessionID == sessionID {
			delete(r.locks, key)
		}
	}
}

// StartSweeper lanza la limpieza periódica de bloqueos vencidos. Se detiene
// al cancelar el contexto; es una tarea programada explícita, no un timer
// fire-and-forget.
func (r *LockRegistry) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sweep()
			}
		}
	}()
}

func (r *LockRegistry) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for key, l := range r.locks {
		if l.Expired(now) {
			delete(r.locks, key)
		}
	}
}
