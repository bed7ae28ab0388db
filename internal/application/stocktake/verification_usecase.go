package stocktake

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

// VerificationUseCase máquina de estados del verificador, a granularidad de
// estante: aprobar congela los conteos, rechazar los reabre para re-conteo.
// No existe transición de salida desde APPROVED: corregir un conteo aprobado
// requiere un ajuste de inventario fuera de banda, nunca una edición del libro.
type VerificationUseCase struct {
	sessionRepo repository.SessionRepository
	entryRepo   repository.CountEntryRepository
}

// NewVerificationUseCase construye el caso de uso.
func NewVerificationUseCase(sessionRepo repository.SessionRepository, entryRepo repository.CountEntryRepository) *VerificationUseCase {
	return &VerificationUseCase{sessionRepo: sessionRepo, entryRepo: entryRepo}
}

// ApproveShelf marca APPROVED todos los conteos PENDING del estante, con
// verificador y marca de tiempo. Idempotente: los ya aprobados no se tocan.
// Devuelve cuántos conteos transicionó en esta llamada.
func (uc *VerificationUseCase) ApproveShelf(ctx context.Context, branchID, shelfName, verifierID string, cap domstocktake.Capability) (int, error) {
	if !cap.CanVerify() {
		return 0, domain.ErrForbidden
	}
	session, _, err := uc.shelfEntries(branchID, shelfName)
	if err != nil {
		return 0, err
	}
	return uc.entryRepo.ApproveShelf(session.ID, shelfName, verifierID, time.Now())
}

// RejectShelf marca REJECTED, con la razón dada, los conteos no aprobados del
// estante. El estante vuelve a ser editable por sus contadores originales:
// editar un conteo rechazado lo regresa a PENDING y el estado del estante se
// recalcula solo.
func (uc *VerificationUseCase) RejectShelf(ctx context.Context, branchID, shelfName, verifierID, reason string, cap domstocktake.Capability) (int, error) {
	if !cap.CanVerify() {
		return 0, domain.ErrForbidden
	}
	if strings.TrimSpace(reason) == "" {
		return 0, domain.ErrInvalidInput
	}
	session, _, err := uc.shelfEntries(branchID, shelfName)
	if err != nil {
		return 0, err
	}
	return uc.entryRepo.RejectShelf(session.ID, shelfName, verifierID, reason, time.Now())
}

// shelfEntries resuelve la sesión activa de la sucursal y valida que el
// estante exista y tenga al menos un conteo.
func (uc *VerificationUseCase) shelfEntries(branchID, shelfName string) (*entity.StockTakeSession, []*entity.ItemCountEntry, error) {
	session, err := uc.sessionRepo.GetActiveByBranch(branchID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, domain.ErrSessionNotActive
	}
	entries, err := uc.entryRepo.ListByShelf(session.ID, shelfName)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, domain.ErrShelfEmpty
	}
	return session, entries, nil
}
