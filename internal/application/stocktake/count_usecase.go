package stocktake

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
	domstocktake "github.com/jhoicas/conteo-api/internal/domain/stocktake"
)

// CountUseCase libro de conteos: alta, edición y borrado de conteos
// individuales con sus reglas de revisión.
type CountUseCase struct {
	sessionRepo repository.SessionRepository
	entryRepo   repository.CountEntryRepository
	shelfRepo   repository.ShelfRepository
	itemRepo    repository.ItemRepository
	stockRepo   repository.StockRepository
	locks       repository.LockRegistry
}

// NewCountUseCase construye el caso de uso.
func NewCountUseCase(
	sessionRepo repository.SessionRepository,
	entryRepo repository.CountEntryRepository,
	shelfRepo repository.ShelfRepository,
	itemRepo repository.ItemRepository,
	stockRepo repository.StockRepository,
	locks repository.LockRegistry,
) *CountUseCase {
	return &CountUseCase{
		sessionRepo: sessionRepo,
		entryRepo:   entryRepo,
		shelfRepo:   shelfRepo,
		itemRepo:    itemRepo,
		stockRepo:   stockRepo,
		locks:       locks,
	}
}

// SaveCountInput entrada para registrar un conteo.
type SaveCountInput struct {
	SessionID     string
	ItemID        string
	ShelfLocation string
	BatchNumber   *string
	ExpiryDate    *time.Time
	UnitName      string
	Quantity      decimal.Decimal
	Notes         string
	CountedBy     string
}

// SaveCount valida y registra un conteo con estado PENDING. Toma un snapshot
// del stock del sistema (lectura única, no se relee después) para que la
// varianza sea estable aunque el stock cambie. El bloqueo del artículo es
// advisory a nivel de UI: el libro registra counted_by para auditoría y
// libera el bloqueo del caller al guardar.
func (uc *CountUseCase) SaveCount(ctx context.Context, in SaveCountInput) (*entity.ItemCountEntry, error) {
	session, err := uc.activeSession(in.SessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ShelfLocation) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.RequiresBatchTracking && (in.BatchNumber == nil || strings.TrimSpace(*in.BatchNumber) == "") {
		return nil, domain.ErrBatchRequired
	}
	if item.RequiresExpiryTracking && in.ExpiryDate == nil {
		return nil, domain.ErrExpiryRequired
	}
	multiplier, ok := item.UnitMultiplier(in.UnitName)
	if !ok {
		return nil, domain.ErrUnknownUnit
	}

	if err := uc.ensureShelf(session, in.ShelfLocation, in.CountedBy); err != nil {
		return nil, err
	}

	// Snapshot del stock del sistema al momento del conteo.
	stock, err := uc.stockRepo.Get(in.ItemID, session.BranchID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &entity.ItemCountEntry{
		ID:                 uuid.New().String(),
		SessionID:          session.ID,
		BranchID:           session.BranchID,
		ItemID:             in.ItemID,
		ShelfLocation:      strings.TrimSpace(in.ShelfLocation),
		BatchNumber:        in.BatchNumber,
		ExpiryDate:         in.ExpiryDate,
		UnitName:           in.UnitName,
		QuantityInUnit:     in.Quantity,
		CountedQuantity:    in.Quantity.Mul(multiplier),
		SystemQuantity:     stock.Quantity,
		CountedBy:          in.CountedBy,
		CountedAt:          now,
		VerificationStatus: entity.VerificationPending,
		Notes:              in.Notes,
	}
	if err := uc.entryRepo.Create(entry); err != nil {
		return nil, err
	}
	uc.locks.Release(session.ID, in.ItemID, in.CountedBy)
	return entry, nil
}

// UpdateCountInput campos editables de un conteo existente.
type UpdateCountInput struct {
	EntryID     string
	UserID      string
	Quantity    decimal.Decimal
	UnitName    string
	BatchNumber *string
	ExpiryDate  *time.Time
	Notes       string
}

// UpdateCount edita un conteo. Solo el contador original y solo mientras el
// estado sea PENDING o REJECTED. Editar un conteo REJECTED limpia la razón de
// rechazo y lo regresa a PENDING: no hay acción "reenviar" separada, el
// estante se recalcula solo.
func (uc *CountUseCase) UpdateCount(ctx context.Context, in UpdateCountInput) (*entity.ItemCountEntry, error) {
	entry, err := uc.entryRepo.GetByID(in.EntryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if !entry.Editable() {
		return nil, domain.ErrEntryApproved
	}
	if entry.CountedBy != in.UserID {
		return nil, domain.ErrForbidden
	}
	if _, err := uc.activeSession(entry.SessionID); err != nil {
		return nil, err
	}
	if in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	item, err := uc.itemRepo.GetByID(entry.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	unitName := in.UnitName
	if unitName == "" {
		unitName = entry.UnitName
	}
	multiplier, ok := item.UnitMultiplier(unitName)
	if !ok {
		return nil, domain.ErrUnknownUnit
	}
	if item.RequiresBatchTracking && (in.BatchNumber == nil || strings.TrimSpace(*in.BatchNumber) == "") {
		return nil, domain.ErrBatchRequired
	}
	if item.RequiresExpiryTracking && in.ExpiryDate == nil {
		return nil, domain.ErrExpiryRequired
	}

	entry.UnitName = unitName
	entry.QuantityInUnit = in.Quantity
	entry.CountedQuantity = in.Quantity.Mul(multiplier)
	entry.BatchNumber = in.BatchNumber
	entry.ExpiryDate = in.ExpiryDate
	entry.Notes = in.Notes
	entry.CountedAt = time.Now()
	// Re-conteo tras rechazo: vuelve a PENDING y limpia la razón.
	entry.VerificationStatus = entity.VerificationPending
	entry.RejectionReason = nil
	entry.VerifiedBy = nil
	entry.VerifiedAt = nil

	if err := uc.entryRepo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteCount borra un conteo no aprobado. Solo el contador original (o un
// admin) puede hacerlo.
func (uc *CountUseCase) DeleteCount(ctx context.Context, entryID, userID string, cap domstocktake.Capability) error {
	entry, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return domain.ErrNotFound
	}
	if !entry.Editable() {
		return domain.ErrEntryApproved
	}
	if entry.CountedBy != userID && !cap.CanStartSession() {
		return domain.ErrForbidden
	}
	return uc.entryRepo.Delete(entryID)
}

// ListByShelf conteos de un estante dentro de la sesión.
func (uc *CountUseCase) ListByShelf(ctx context.Context, sessionID, shelf string) ([]*entity.ItemCountEntry, error) {
	return uc.entryRepo.ListByShelf(sessionID, shelf)
}

// ListMine conteos registrados por el usuario en la sesión.
func (uc *CountUseCase) ListMine(ctx context.Context, sessionID, userID string) ([]*entity.ItemCountEntry, error) {
	return uc.entryRepo.ListByUser(sessionID, userID)
}

// activeSession carga la sesión y verifica que siga ACTIVE.
func (uc *CountUseCase) activeSession(sessionID string) (*entity.StockTakeSession, error) {
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
	return session, nil
}

// ensureShelf registra el estante si es nuevo; si el nombre colisiona
// case-insensitive con un estante existente de nombre distinto, rechaza para
// evitar casi-duplicados ("A1" vs "a1").
func (uc *CountUseCase) ensureShelf(session *entity.StockTakeSession, shelfLocation, userID string) error {
	name := strings.TrimSpace(shelfLocation)
	key := domstocktake.NormalizeShelfKey(name)
	shelves, err := uc.shelfRepo.ListBySession(session.ID)
	if err != nil {
		return err
	}
	for _, s := range shelves {
		if domstocktake.NormalizeShelfKey(s.Name) == key {
			if s.Name != name {
				return domain.ErrDuplicateShelf
			}
			return nil // mismo estante, seguir contando en él
		}
	}
	err = uc.shelfRepo.Register(&entity.Shelf{
		SessionID: session.ID,
		Name:      name,
		OpenedBy:  userID,
		OpenedAt:  time.Now(),
	})
	if errors.Is(err, domain.ErrDuplicateShelf) {
		// Otro contador registró el estante entre el listado y el alta.
		// Si el nombre coincide exacto es el mismo estante y se sigue
		// contando en él; si difiere en mayúsculas es un casi-duplicado.
		shelves, listErr := uc.shelfRepo.ListBySession(session.ID)
		if listErr != nil {
			return listErr
		}
		for _, s := range shelves {
			if s.Name == name {
				return nil
			}
		}
	}
	return err
}
