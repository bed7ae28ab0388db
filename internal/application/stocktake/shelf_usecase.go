package stocktake

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

// ShelfUseCase agregador de estantes: lista las particiones de trabajo de la
// sesión con su conteo de artículos y su estado derivado, y valida la apertura
// de estantes nuevos.
type ShelfUseCase struct {
	sessionRepo repository.SessionRepository
	entryRepo   repository.CountEntryRepository
	shelfRepo   repository.ShelfRepository
}

// NewShelfUseCase construye el agregador.
func NewShelfUseCase(sessionRepo repository.SessionRepository, entryRepo repository.CountEntryRepository, shelfRepo repository.ShelfRepository) *ShelfUseCase {
	return &ShelfUseCase{sessionRepo: sessionRepo, entryRepo: entryRepo, shelfRepo: shelfRepo}
}

// Open abre un estante nuevo en la sesión activa de la sucursal, antes de
// cualquier conteo. Nombres que colisionan case-insensitive con un estante
// existente se rechazan para evitar casi-duplicados.
func (uc *ShelfUseCase) Open(ctx context.Context, branchID, name, userID string) (*entity.Shelf, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.sessionRepo.GetActiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotActive
	}
	shelf := &entity.Shelf{
		SessionID:          session.ID,
		Name:               trimmed,
		VerificationStatus: entity.VerificationPending,
		OpenedBy:           userID,
		OpenedAt:           time.Now(),
	}
	if err := uc.shelfRepo.Register(shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// List estantes de la sesión activa con item_count y estado de verificación
// derivado de sus conteos (recomputación idempotente, nunca estado almacenado).
func (uc *ShelfUseCase) List(ctx context.Context, branchID string) ([]*entity.Shelf, error) {
	session, err := uc.sessionRepo.GetActiveByBranch(branchID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotActive
	}
	registered, err := uc.shelfRepo.ListBySession(session.ID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.entryRepo.ListBySession(session.ID)
	if err != nil {
		return nil, err
	}

	byShelf := groupByShelf(entries)
	shelves := make([]*entity.Shelf, 0, len(registered))
	seen := make(map[string]bool, len(registered))
	for _, s := range registered {
		shelfEntries := byShelf[s.Name]
		shelves = append(shelves, &entity.Shelf{
			SessionID:          session.ID,
			Name:               s.Name,
			ItemCount:          len(shelfEntries),
			VerificationStatus: domstocktake.DeriveShelfStatus(shelfEntries),
			OpenedBy:           s.OpenedBy,
			OpenedAt:           s.OpenedAt,
		})
		seen[s.Name] = true
	}
	// Conteos con estante no registrado (datos previos a la puerta de
	// apertura) siguen siendo visibles como estantes derivados.
	for name, shelfEntries := range byShelf {
		if seen[name] {
			continue
		}
		shelves = append(shelves, &entity.Shelf{
			SessionID:          session.ID,
			Name:               name,
			ItemCount:          len(shelfEntries),
			VerificationStatus: domstocktake.DeriveShelfStatus(shelfEntries),
		})
	}
	sort.Slice(shelves, func(i, j int) bool { return shelves[i].Name < shelves[j].Name })
	return shelves, nil
}
