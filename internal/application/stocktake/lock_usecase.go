package stocktake

import (
	"context"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// LockUseCase reclamo y liberación de bloqueos de artículo. Valida que la
// sesión siga activa y resuelve el nombre visible del holder para que los
// clientes puedan mostrar quién está contando qué.
type LockUseCase struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
	locks       repository.LockRegistry
}

// NewLockUseCase construye el caso de uso.
func NewLockUseCase(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, locks repository.LockRegistry) *LockUseCase {
	return &LockUseCase{sessionRepo: sessionRepo, userRepo: userRepo, locks: locks}
}

// Acquire reclama el bloqueo de (sesión, artículo) para el usuario. Si otro
// lo tiene vigente devuelve *domain.LockConflictError: la UI debe mostrar al
// holder y rehusar abrir el formulario de conteo.
func (uc *LockUseCase) Acquire(ctx context.Context, sessionID, itemID, userID string) (*entity.ItemLock, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if !session.IsActive() {
		return nil, domain.ErrSessionNotActive
	}
	name, err := uc.userRepo.DisplayName(userID)
	if err != nil || name == "" {
		name = userID
	}
	return uc.locks.Acquire(sessionID, itemID, userID, name)
}

// Release libera el bloqueo; idempotente, se llama al guardar, cancelar o
// navegar fuera.
func (uc *LockUseCase) Release(ctx context.Context, sessionID, itemID, userID string) {
	uc.locks.Release(sessionID, itemID, userID)
}

// List bloqueos vigentes de la sesión; lo consulta por polling cada cliente
// activo para refrescar sus indicadores.
func (uc *LockUseCase) List(ctx context.Context, sessionID string) []*entity.ItemLock {
	return uc.locks.List(sessionID)
}
