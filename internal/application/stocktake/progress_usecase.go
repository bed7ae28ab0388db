package stocktake

import (
	"context"

	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// Progress métricas contado-vs-esperado para los indicadores de estado de
// todos los roles. Solo para visualización: nunca condiciona transiciones.
type Progress struct {
	CountedItems int
	TotalItems   int
}

// ProgressUseCase combina el universo esperado del catálogo con los artículos
// distintos ya contados en la sesión activa.
type ProgressUseCase struct {
	sessionRepo repository.SessionRepository
	entryRepo   repository.CountEntryRepository
	itemRepo    repository.ItemRepository
}

// NewProgressUseCase construye el agregador de progreso.
func NewProgressUseCase(sessionRepo repository.SessionRepository, entryRepo repository.CountEntryRepository, itemRepo repository.ItemRepository) *ProgressUseCase {
	return &ProgressUseCase{sessionRepo: sessionRepo, entryRepo: entryRepo, itemRepo: itemRepo}
}

// GetProgress progreso de la sesión activa de la sucursal.
func (uc *ProgressUseCase) GetProgress(ctx context.Context, branchID string) (*Progress, error) {
	session, err := uc.sessionRepo.GetActiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		// Sin sesión activa el tablero muestra 0/0; los clientes consultan
		// este endpoint por sondeo y un error aquí solo genera ruido.
		return &Progress{}, nil
	}
	counted, err := uc.entryRepo.DistinctItems(session.ID)
	if err != nil {
		return nil, err
	}
	total, err := uc.itemRepo.CountByBranch(branchID)
	if err != nil {
		return nil, err
	}
	return &Progress{CountedItems: counted, TotalItems: total}, nil
}
